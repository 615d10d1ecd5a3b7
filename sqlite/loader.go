package sqlite

import (
	"context"
	"os"
	"strings"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/repo"
	"github.com/google/uuid"
)

// Loader streams the Contents and Packages indexes into the relational
// store. It consumes the same index inputs as the cache builder but is
// otherwise independent: it neither reads nor writes the package cache.
type Loader struct {
	db *DB
}

// NewLoader creates a new Loader.
func NewLoader(db *DB) *Loader {
	return &Loader{db: db}
}

// LoadResult counts the rows inserted by one Load.
type LoadResult struct {
	Manpages int
	Packages int
}

// Load inserts one manpages row per qualifying (path, package) pair and
// one packages row per package that ships at least one manpage. Both
// index files must exist; absence is a precondition failure.
func (l *Loader) Load(ctx context.Context, contentsPath, packagesPath string) (*LoadResult, error) {
	for _, path := range []string{contentsPath, packagesPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, manfetch.Errorf(manfetch.EPRECONDITION, "index file %q missing; run update first", path)
		}
	}

	var res LoadResult
	withPages := make(map[string]struct{})

	if err := l.loadManpages(ctx, contentsPath, withPages, &res); err != nil {
		return nil, err
	}
	if err := l.loadPackages(ctx, packagesPath, withPages, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (l *Loader) loadManpages(ctx context.Context, contentsPath string, withPages map[string]struct{}, res *LoadResult) error {
	r, err := repo.OpenIndex(contentsPath)
	if err != nil {
		return err
	}
	defer r.Close()

	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO manpages (id, path, name, section, package)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = repo.ParseContents(r, func(path string, locations []string) error {
		if !manfetch.IsManpagePath(path) {
			return nil
		}

		name, section, ok := splitPage(manfetch.CanonicalName(path))
		if !ok {
			return nil
		}

		for _, loc := range locations {
			key, keyOK := manfetch.ParseArchiveKey(loc)
			if !keyOK {
				continue
			}
			if _, err := stmt.ExecContext(ctx, uuid.New().String(), path, name, section, key.Name); err != nil {
				return err
			}
			withPages[key.Name] = struct{}{}
			res.Manpages++
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (l *Loader) loadPackages(ctx context.Context, packagesPath string, withPages map[string]struct{}, res *LoadResult) error {
	r, err := repo.OpenIndex(packagesPath)
	if err != nil {
		return err
	}
	defer r.Close()

	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO packages (id, package, filename, version, description)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	err = repo.ParsePackages(r, func(st repo.Stanza) error {
		if _, ok := withPages[st.Package]; !ok {
			return nil
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), st.Package, st.Filename, st.Version, st.Description); err != nil {
			return err
		}
		res.Packages++
		return nil
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

// splitPage splits a canonical page name at its final dot into the page
// name and its manual section.
func splitPage(page string) (name, section string, ok bool) {
	i := strings.LastIndex(page, ".")
	if i <= 0 || i == len(page)-1 {
		return "", "", false
	}
	return page[:i], page[i+1:], true
}
