// Package vault implements the document store: a rooted directory tree of
// markdown documents with wiki-style reference resolution (exact relative
// path, extension-less path, or unique basename anywhere in the vault).
package vault

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/transclude/internal/foundation/errors"
	"git.home.luguber.info/inful/transclude/internal/transclude"
)

// Vault is a document store rooted at a directory. It implements
// transclude.Store. Document identifiers are slash-separated vault-relative
// paths, which makes them stable cycle-guard keys.
type Vault struct {
	root string
}

// Open validates root and returns a Vault bound to it.
func Open(root string) (*Vault, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryVault, "resolve vault root").
			WithContext("root", root).Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryVault, "open vault root").
			WithContext("root", abs).Build()
	}
	if !info.IsDir() {
		return nil, errors.ValidationError("vault root is not a directory").
			WithContext("root", abs).Build()
	}
	return &Vault{root: abs}, nil
}

// Root returns the absolute vault root directory.
func (v *Vault) Root() string { return v.root }

// Resolve maps an embed target to a document handle.
//
// Lookup order: the target as a vault-relative path, then with ".md"
// appended, then a unique-basename search across the vault. Anything that
// does not land on exactly one markdown file is a not_found error, including
// ambiguous basenames and path escapes.
func (v *Vault) Resolve(ctx context.Context, target string) (*transclude.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimSpace(target)))
	if cleaned == "." || cleaned == "" || !filepath.IsLocal(cleaned) {
		return nil, errors.NotFoundError("embed target does not name a document").
			WithContext("target", target).Build()
	}
	if ext := filepath.Ext(cleaned); ext != "" && !strings.EqualFold(ext, ".md") {
		// Embeds of non-markdown assets (images, PDFs) are not documents.
		return nil, errors.NotFoundError("embed target is not a markdown document").
			WithContext("target", target).Build()
	}

	for _, candidate := range []string{cleaned, cleaned + ".md"} {
		if !strings.EqualFold(filepath.Ext(candidate), ".md") {
			continue
		}
		if info, err := os.Stat(filepath.Join(v.root, candidate)); err == nil && info.Mode().IsRegular() {
			return v.document(candidate), nil
		}
	}

	match, err := v.findByBasename(filepath.Base(cleaned))
	if err != nil {
		return nil, err
	}
	if match == "" {
		return nil, errors.NotFoundError("document not found").
			WithContext("target", target).Build()
	}
	return v.document(match), nil
}

// findByBasename returns the vault-relative path of the single markdown file
// named base (with or without extension), or "" when there is none. Multiple
// matches are reported as not found: an ambiguous reference resolves nothing.
func (v *Vault) findByBasename(base string) (string, error) {
	want := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	if want == "" {
		return "", nil
	}

	var matches []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}
		if strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) == want {
			rel, relErr := filepath.Rel(v.root, path)
			if relErr != nil {
				return relErr
			}
			matches = append(matches, rel)
		}
		return nil
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryVault, "scan vault").
			WithContext("root", v.root).Build()
	}

	if len(matches) != 1 {
		if len(matches) > 1 {
			return "", errors.NotFoundError("ambiguous document reference").
				WithContext("base", base).WithContext("matches", len(matches)).Build()
		}
		return "", nil
	}
	return matches[0], nil
}

// ReadText returns the raw markdown of a resolved document.
func (v *Vault) ReadText(ctx context.Context, doc *transclude.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(v.root, filepath.FromSlash(doc.ID))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFoundError("document vanished").
				WithContext("path", doc.ID).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryVault, "read document").
			WithContext("path", doc.ID).Build()
	}
	return data, nil
}

// List returns the vault-relative paths of all markdown documents, sorted by
// the walk order (lexical within each directory).
func (v *Vault) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var docs []string
	err := filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != v.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(v.root, path)
		if relErr != nil {
			return relErr
		}
		docs = append(docs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryVault, "list vault").
			WithContext("root", v.root).Build()
	}
	return docs, nil
}

func (v *Vault) document(rel string) *transclude.Document {
	rel = filepath.ToSlash(rel)
	base := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		base = rel[i+1:]
	}
	return &transclude.Document{
		ID:   rel,
		Name: strings.TrimSuffix(base, filepath.Ext(base)),
	}
}
