//go:build ignore

package main

import (
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

const registryFile = "models_registry.go"

func main() {
	_ = godotenv.Load()

	var modelsDir string
	if len(os.Args) >= 2 {
		modelsDir = os.Args[1]
	} else {
		modelsDir = os.Getenv("GORM_MODELS_PATH")
		if modelsDir == "" {
			modelsDir = filepath.Join("internal", "models")
		}
	}

	outputFile := os.Getenv("GORM_MODELS_REGISTRY_FILE")
	if outputFile == "" {
		outputFile = filepath.Join(modelsDir, registryFile)
	}

	structs, pkg, err := collectModels(modelsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var b strings.Builder
	b.WriteString("// Code generated by tools/gen_models_registry.go; DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	b.WriteString("var ModelTypeRegistry = map[string]interface{}{\n")
	for _, name := range structs {
		fmt.Fprintf(&b, "\t%q: %s{},\n", name, name)
	}
	b.WriteString("}\n")

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "format registry: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputFile, src, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write registry: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d models.\n", outputFile, len(structs))
}

// collectModels returns the exported, non-empty struct types declared in
// dir. Empty structs are helper types, not tables.
func collectModels(dir string) ([]string, string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, "", err
	}

	var pkg string
	var structs []string
	for _, file := range files {
		name := file.Name()
		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") || name == registryFile {
			continue
		}
		fset := token.NewFileSet()
		node, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.SkipObjectResolution)
		if err != nil {
			return nil, "", err
		}
		pkg = node.Name.Name
		for _, decl := range node.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok || !typeSpec.Name.IsExported() {
					continue
				}
				st, ok := typeSpec.Type.(*ast.StructType)
				if !ok || st.Fields == nil || len(st.Fields.List) == 0 {
					continue
				}
				structs = append(structs, typeSpec.Name.Name)
			}
		}
	}
	if pkg == "" {
		return nil, "", fmt.Errorf("no Go files found in %s", dir)
	}

	sort.Strings(structs)
	return structs, pkg, nil
}
