package registry

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/buildgraph/internal/ctxlog"
	"github.com/specialistvlad/buildgraph/internal/fsutil"
)

// LoadManifests registers the rule classes declared in every .hcl file found
// under paths. Missing paths are skipped. A malformed manifest or a class
// name that is already registered is reported as an error.
func (r *Registry) LoadManifests(ctx context.Context, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Registry loading rule class manifests...", "paths", paths)

	filePaths, err := fsutil.CollectFiles(paths, ".hcl")
	if err != nil {
		logger.Error("Failed to walk manifest paths", "paths", paths, "error", err)
		return err
	}
	if len(filePaths) == 0 {
		logger.Debug("No .hcl manifest files found", "paths", paths)
		return nil
	}

	parser := hclparse.NewParser()
	loaded := 0

	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
		}

		var root manifestFile
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
		}

		for _, block := range root.RuleClasses {
			rc, err := translateRuleClass(ctx, block)
			if err != nil {
				return fmt.Errorf("failed to process rule class definition in %s: %w", filePath, err)
			}
			if err := r.register(rc, filePath); err != nil {
				return fmt.Errorf("%s: %w", filePath, err)
			}
			loaded++
		}
		logger.Debug("Successfully loaded definitions from HCL file", "file", filePath)
	}

	logger.Info("Rule class manifests loaded.", "files", len(filePaths), "rule_classes_loaded", loaded)
	return nil
}
