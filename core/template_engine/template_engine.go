package template_engine

import (
	"bytes"
	"fmt"
	"path"
	"reflect"
	"strings"
	"text/template"
	"time"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/naming"
	"github.com/c12i/scaffolding/core/shared"
)

const (
	// TemplateSuffix marks a file whose content is rendered. Other files are
	// copied byte for byte.
	TemplateSuffix = ".tmpl"
	// InstructionsSuffix marks a template rendered into follow-up guidance
	// for the user instead of into the tree.
	InstructionsSuffix = ".instructions.tmpl"

	markupOpen = "{{"
)

type TemplateEngine struct {
	funcMap template.FuncMap
}

func getDefaultFuncMap() template.FuncMap {
	return template.FuncMap{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     shared.ToTitle,
		"trim":      strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"split":     strings.Split,
		"join":      strings.Join,

		"snake":    naming.ToSnake,
		"pascal":   naming.ToPascal,
		"camel":    naming.ToCamel,
		"kebab":    naming.ToKebab,
		"plural":   naming.Plural,
		"singular": naming.Singular,

		"formatTime": func(layout string, t time.Time) string { return t.Format(layout) },

		"default": func(def, val interface{}) interface{} {
			if val == nil || val == "" {
				return def
			}
			return val
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },

		"len": func(v interface{}) int { return reflect.ValueOf(v).Len() },
		"first": func(v interface{}) interface{} {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Slice && rv.Len() > 0 {
				return rv.Index(0).Interface()
			}
			return nil
		},
		"last": func(v interface{}) interface{} {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Slice && rv.Len() > 0 {
				return rv.Index(rv.Len() - 1).Interface()
			}
			return nil
		},
		"not": func(b bool) bool { return !b },
	}
}

func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		funcMap: getDefaultFuncMap(),
	}
}

func NewTemplateEngineWithFuncs(customFuncs template.FuncMap) *TemplateEngine {
	engine := NewTemplateEngine()

	for name, fn := range customFuncs {
		engine.funcMap[name] = fn
	}

	return engine
}

func (te *TemplateEngine) AddFunc(name string, fn interface{}) {
	te.funcMap[name] = fn
}

// RenderString renders text against data. name identifies the template in
// error messages.
func (te *TemplateEngine) RenderString(name, text string, data interface{}) (string, error) {
	tmpl, err := template.New(name).Funcs(te.funcMap).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", shared.TemplateError(name, fmt.Errorf("failed to parse template: %w", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", shared.TemplateError(name, fmt.Errorf("failed to execute template: %w", err))
	}
	return buf.String(), nil
}

// RenderTree renders a template tree against data into a new tree. Node
// names containing markup are rendered; a name that renders empty drops the
// node and one that renders to a/b nests it. Files ending in TemplateSuffix
// are rendered with the suffix stripped, the rest pass through untouched.
// Files ending in InstructionsSuffix are rendered into the returned
// instructions and left out of the tree.
func (te *TemplateEngine) RenderTree(tmpl *file_tree.FileTree, data interface{}) (*file_tree.FileTree, []string, error) {
	if !tmpl.IsDir() {
		return nil, nil, shared.TemplateError("/", fmt.Errorf("template root is not a directory"))
	}
	out := file_tree.NewDir(nil)
	var instructions []string
	if err := te.renderDir(tmpl, "", out, data, &instructions); err != nil {
		return nil, nil, err
	}
	return out, instructions, nil
}

func (te *TemplateEngine) renderDir(dir *file_tree.FileTree, templatePath string, out *file_tree.FileTree, data interface{}, instructions *[]string) error {
	for _, name := range dir.Names() {
		node := dir.Child(name)
		nodePath := path.Join(templatePath, name)

		if node.IsFile() && strings.HasSuffix(name, InstructionsSuffix) {
			rendered, err := te.RenderString(nodePath, string(node.Content()), data)
			if err != nil {
				return err
			}
			*instructions = append(*instructions, rendered)
			continue
		}

		renderedName, err := te.renderName(nodePath, name, data)
		if err != nil {
			return err
		}
		if node.IsFile() {
			renderedName = strings.TrimSuffix(renderedName, TemplateSuffix)
		}
		if strings.Trim(renderedName, "/") == "" {
			logger.Debug("Skipping %s: name rendered empty", nodePath)
			continue
		}

		if node.IsDir() {
			target := out.Get(renderedName)
			if target == nil {
				target = file_tree.NewDir(nil)
				if err := out.Insert(renderedName, target); err != nil {
					return shared.TemplateError(nodePath, err)
				}
			} else if !target.IsDir() {
				return shared.TemplateError(nodePath, fmt.Errorf("%s renders onto a file", renderedName))
			}
			if err := te.renderDir(node, nodePath, target, data, instructions); err != nil {
				return err
			}
			continue
		}

		content := node.Content()
		if strings.HasSuffix(name, TemplateSuffix) {
			rendered, err := te.RenderString(nodePath, string(content), data)
			if err != nil {
				return err
			}
			content = []byte(rendered)
		}
		if err := out.Insert(renderedName, file_tree.NewFile(content)); err != nil {
			return shared.TemplateError(nodePath, err)
		}
	}
	return nil
}

func (te *TemplateEngine) renderName(nodePath, name string, data interface{}) (string, error) {
	if !strings.Contains(name, markupOpen) {
		return name, nil
	}
	rendered, err := te.RenderString(nodePath, name, data)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(rendered), nil
}
