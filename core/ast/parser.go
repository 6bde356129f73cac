package ast

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"strings"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/shared"
)

// SourceInfo summarizes a Go source file.
type SourceInfo struct {
	PackageName string
	Funcs       []string
	Types       []string
	Imports     []string
}

func ExtractSourceInfo(file *ast.File) *SourceInfo {
	info := &SourceInfo{
		PackageName: file.Name.Name,
	}

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Recv == nil {
				info.Funcs = append(info.Funcs, d.Name.Name)
			}
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				info.Types = append(info.Types, spec.(*ast.TypeSpec).Name.Name)
			}
		}
	}

	for _, imp := range file.Imports {
		info.Imports = append(info.Imports, strings.Trim(imp.Path.Value, `"`))
	}

	return info
}

func ParseSource(filename string, src []byte) (*SourceInfo, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.AllErrors)
	if err != nil {
		return nil, err
	}
	return ExtractSourceInfo(f), nil
}

// CheckTree parses every Go file among paths in tree. A file that does not
// parse is reported as a template error against its path.
func CheckTree(tree *file_tree.FileTree, paths []string) error {
	for _, p := range paths {
		if path.Ext(p) != ".go" {
			continue
		}
		content, ok := tree.FileContent(p)
		if !ok {
			return shared.TemplateError(p, fmt.Errorf("not a file"))
		}
		info, err := ParseSource(p, content)
		if err != nil {
			return shared.TemplateError(p, fmt.Errorf("rendered invalid Go: %w", err))
		}
		logger.Debug("Parsed %s in package %s with funcs %v and types %v", p, info.PackageName, info.Funcs, info.Types)
	}
	return nil
}
