package template_engine

import (
	"strings"

	"github.com/c12i/scaffolding/core/file_tree"
	"github.com/c12i/scaffolding/core/logger"
	"github.com/c12i/scaffolding/core/merge"
	"github.com/c12i/scaffolding/core/models"
)

// Template subtrees, one per kind of scaffold.
const (
	EntryTypeTemplate = "entry-type"
	LinkTypeTemplate  = "link-type"
)

// ScaffoldedTemplate is the outcome of one scaffold: the merged application
// tree, what changed in it, and follow-up guidance for the user.
type ScaffoldedTemplate struct {
	FileTree         *file_tree.FileTree
	Report           *merge.Report
	NextInstructions string
}

type ScaffoldEntryTypeData struct {
	AppName                      string
	DnaRoleName                  string
	CoordinatorZomeManifest      models.ZomeManifest
	IntegrityZomeManifest        models.ZomeManifest
	EntryType                    models.EntryDefinition
	Crud                         models.Crud
	LinkFromOriginalToEachUpdate bool
}

type ScaffoldLinkTypeData struct {
	AppName  string
	LinkType models.LinkTypeData
}

func (te *TemplateEngine) ScaffoldEntryType(app, tmpl *file_tree.FileTree, data ScaffoldEntryTypeData, policies merge.PolicySet) (*ScaffoldedTemplate, error) {
	return te.scaffold(app, tmpl, EntryTypeTemplate, data, policies)
}

func (te *TemplateEngine) ScaffoldLinkType(app, tmpl *file_tree.FileTree, data ScaffoldLinkTypeData, policies merge.PolicySet) (*ScaffoldedTemplate, error) {
	return te.scaffold(app, tmpl, LinkTypeTemplate, data, policies)
}

// scaffold renders the kind subtree of tmpl and merges it into app. A
// template without that subtree has nothing to render for the kind, which is
// not an error. The kind's instructions file sits next to the subtree.
func (te *TemplateEngine) scaffold(app, tmpl *file_tree.FileTree, kind string, data interface{}, policies merge.PolicySet) (*ScaffoldedTemplate, error) {
	if app == nil {
		app = file_tree.NewDir(nil)
	}
	result := &ScaffoldedTemplate{FileTree: app, Report: &merge.Report{}}
	var instructions []string

	if sub := tmpl.Get(kind); sub != nil && sub.IsDir() {
		rendered, nested, err := te.RenderTree(sub, data)
		if err != nil {
			return nil, err
		}
		merged, report, err := merge.Merge(app, rendered, policies)
		if err != nil {
			return nil, err
		}
		result.FileTree = merged
		result.Report = report
		instructions = append(instructions, nested...)
	} else {
		logger.Debug("Template has no %s subtree, nothing to render", kind)
	}

	if content, ok := tmpl.FileContent(kind + InstructionsSuffix); ok {
		rendered, err := te.RenderString(kind+InstructionsSuffix, string(content), data)
		if err != nil {
			return nil, err
		}
		instructions = append([]string{rendered}, instructions...)
	}

	var parts []string
	for _, s := range instructions {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, strings.TrimSpace(s))
		}
	}
	result.NextInstructions = strings.Join(parts, "\n\n")
	return result, nil
}
