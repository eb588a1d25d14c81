// This file contains the HCL schema of rule class manifests and its
// translation into packages.RuleClass values.

package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/buildgraph/internal/attr"
	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/packages"
)

// manifestFile is used to decode all top-level blocks of a manifest.
type manifestFile struct {
	RuleClasses []*ruleClassBlock `hcl:"rule_class,block"`
	Remain      hcl.Body          `hcl:",remain"`
}

type ruleClassBlock struct {
	Name          string            `hcl:"name,label"`
	WorkspaceOnly bool              `hcl:"workspace_only,optional"`
	Doc           string            `hcl:"doc,optional"`
	Attributes    []*attributeBlock `hcl:"attribute,block"`
}

type attributeBlock struct {
	Name      string         `hcl:"name,label"`
	Type      hcl.Expression `hcl:"type"`
	Default   hcl.Expression `hcl:"default,optional"`
	Mandatory bool           `hcl:"mandatory,optional"`
	Doc       string         `hcl:"doc,optional"`
}

// isExprDefined checks if an HCL expression was actually present in the
// source. Omitted optional attributes are decoded as zero-width expressions,
// so a nil check is not enough.
func isExprDefined(ctx context.Context, expr hcl.Expression, attrName string) bool {
	logger := ctxlog.FromContext(ctx)

	if expr == nil {
		return false
	}

	exprRange := expr.Range()
	isDefined := exprRange.End.Byte > exprRange.Start.Byte

	logger.Debug("Checking if HCL attribute was explicitly defined.",
		"attribute", attrName,
		"hcl_range", exprRange.String(),
		"is_defined", isDefined,
	)
	return isDefined
}

// translateRuleClass converts a decoded rule_class block into a RuleClass.
func translateRuleClass(ctx context.Context, b *ruleClassBlock) (*packages.RuleClass, error) {
	logger := ctxlog.FromContext(ctx).With("rule_class", b.Name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Translating rule class manifest.", "attributes", len(b.Attributes))

	attrs := make([]packages.Attribute, 0, len(b.Attributes))
	for _, ab := range b.Attributes {
		a, err := translateAttribute(ctx, ab)
		if err != nil {
			return nil, fmt.Errorf("in rule class '%s', attribute '%s': %w", b.Name, ab.Name, err)
		}
		attrs = append(attrs, a)
	}

	return packages.NewRuleClass(b.Name, b.WorkspaceOnly, attrs, packages.WithDoc(b.Doc))
}

func translateAttribute(ctx context.Context, b *attributeBlock) (packages.Attribute, error) {
	t, err := typeExprToAttrType(ctx, b.Type)
	if err != nil {
		return packages.Attribute{}, err
	}

	a := packages.Attribute{
		Name:      b.Name,
		Type:      t,
		Mandatory: b.Mandatory,
		Doc:       b.Doc,
	}

	if isExprDefined(ctx, b.Default, "default") {
		val, diags := b.Default.Value(nil)
		if diags.HasErrors() {
			return packages.Attribute{}, fmt.Errorf("invalid default value: %w", diags)
		}
		if !val.IsNull() {
			def, err := attr.FromCty(val, t)
			if err != nil {
				return packages.Attribute{}, fmt.Errorf("invalid default value: %w", err)
			}
			a.Default = def
		}
	}
	return a, nil
}

// typeExprToAttrType converts an HCL type expression such as `string` or
// `list(label)` into an attribute type.
func typeExprToAttrType(ctx context.Context, expr hcl.Expression) (attr.Type, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a function call.", "call", v.Name)
		if v.Name != "list" {
			return 0, fmt.Errorf("unknown type constructor function %q", v.Name)
		}
		if len(v.Args) != 1 {
			return 0, fmt.Errorf("the list() type constructor requires exactly one argument, got %d", len(v.Args))
		}
		elem, err := typeExprToAttrType(ctx, v.Args[0])
		if err != nil {
			return 0, err
		}
		switch elem {
		case attr.String:
			return attr.StringList, nil
		case attr.Label:
			return attr.LabelList, nil
		default:
			return 0, fmt.Errorf("lists of type '%s' are not supported", elem)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return 0, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a primitive.", "keyword", rootName)
		switch rootName {
		case "string", "int", "bool", "label":
			return attr.ParseType(rootName)
		default:
			return 0, fmt.Errorf("unknown primitive type %q", rootName)
		}

	default:
		return 0, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}
