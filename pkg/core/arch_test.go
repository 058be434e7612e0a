package core_test

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const modulePath = "github.com/leapstack-labs/querykit"

// packageImports returns the imports of every non-test file in dir, keyed by file name.
func packageImports(t *testing.T, dir string) map[string][]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	fset := token.NewFileSet()
	imports := make(map[string][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		require.NoError(t, err, name)
		for _, imp := range f.Imports {
			imports[name] = append(imports[name], strings.Trim(imp.Path.Value, `"`))
		}
	}
	return imports
}

func isStdlib(path string) bool {
	return !strings.Contains(strings.SplitN(path, "/", 2)[0], ".")
}

// pkg/core is the leaf every other package builds on.
func TestCoreImportsOnlyStdlib(t *testing.T) {
	for file, imports := range packageImports(t, ".") {
		for _, imp := range imports {
			if !isStdlib(imp) {
				t.Errorf("%s imports non-stdlib package %s", file, imp)
			}
		}
	}
}

// The template compiler must stay usable without any database driver.
func TestQueryBuilderImports(t *testing.T) {
	allowed := map[string]bool{
		modulePath + "/pkg/core":              true,
		"github.com/google/uuid":              true,
		"github.com/hashicorp/golang-lru/v2": true,
	}

	for file, imports := range packageImports(t, filepath.Join("..", "querybuilder")) {
		for _, imp := range imports {
			if isStdlib(imp) || allowed[imp] {
				continue
			}
			t.Errorf("querybuilder/%s imports forbidden package %s", file, imp)
		}
	}
}

func TestPublicPackagesDoNotImportInternal(t *testing.T) {
	for _, dir := range []string{".", filepath.Join("..", "querybuilder"), filepath.Join("..", "adapter")} {
		for file, imports := range packageImports(t, dir) {
			for _, imp := range imports {
				if strings.Contains(imp, "/internal/") {
					t.Errorf("%s/%s imports internal package %s", dir, file, imp)
				}
			}
		}
	}
}
