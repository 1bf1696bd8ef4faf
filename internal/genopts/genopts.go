// Package genopts models the generation options accepted at the compile
// API's generate boundary (spec §6.4) and their YAML configuration-file
// form, validated with the same go-playground/validator singleton pattern
// the teacher project uses for its own config (see DESIGN.md).
package genopts

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ModuleFormat selects the import/export style of the generated file's
// surrounding module, per spec §6.4's moduleFormat ∈ {esm, cjs}. flowc's
// own target is always Go, so this only governs how a generated file is
// wrapped when it's re-exported through a JS-facing shim package; most
// callers leave it at its zero value.
type ModuleFormat string

const (
	FormatUnspecified ModuleFormat = ""
	FormatESM         ModuleFormat = "esm"
	FormatCJS         ModuleFormat = "cjs"
)

// Options is the validated form of spec §6.4's generate() options object,
// plus the strictTypes flag threaded through from internal/validate (spec
// §4.6) so a single config file can drive both validation and generation.
type Options struct {
	// Production suppresses per-node RUNNING events (spec §5).
	Production bool `yaml:"production"`
	// AsyncForced mirrors WorkflowOptions.AsyncForced: treat every
	// workflow as async regardless of its nodes (spec §4.6).
	AsyncForced bool `yaml:"asyncForced"`
	// ModuleFormat is validated but otherwise opaque to flowc's own
	// emitter; it is forwarded to whatever host build step wraps the
	// generated Go file for a JS consumer.
	ModuleFormat ModuleFormat `yaml:"moduleFormat,omitempty" validate:"omitempty,oneof=esm cjs"`
	// ExternalRuntimePath overrides the import path used for the
	// execctx package (spec §5's externalRuntimePath), letting a host
	// project vendor or relocate the runtime contract.
	ExternalRuntimePath string `yaml:"externalRuntimePath,omitempty" validate:"omitempty,min=1"`
	// ExternalNodeTypes maps a node type name to the import path of a
	// package supplying its host function, for node types this compile
	// unit references but does not itself assemble (spec §6.4).
	ExternalNodeTypes map[string]string `yaml:"externalNodeTypes,omitempty" validate:"omitempty,dive,keys,required,endkeys,required"`
	// BundleMode requests that generate() inline imported-workflow
	// callees into one file rather than leaving cross-package calls
	// (spec §6.4).
	BundleMode bool `yaml:"bundleMode,omitempty"`
	// StrictTypes escalates port-type mismatches from warning to error
	// (spec §4.6, §7); a mismatch into a node guarded by the CUSTOM
	// executeWhen stays a warning.
	StrictTypes bool `yaml:"strictTypes,omitempty"`
	// PackageName is the package clause of the assembled output file
	// (internal/compile.AssembleFile). Defaults to "workflows" when empty,
	// matching the teacher's own generated-code convention of never
	// failing a build over an unconfigured cosmetic field.
	PackageName string `yaml:"packageName,omitempty"`
}

// EffectivePackageName returns PackageName, or "workflows" if it was left
// unset, for callers assembling a complete output file from Options.
func (o Options) EffectivePackageName() string {
	if o.PackageName != "" {
		return o.PackageName
	}
	return "workflows"
}

var (
	once     sync.Once
	instance *validator.Validate
)

// validatorInstance lazily builds and caches the package's validator,
// mirroring the teacher's config.validatorInstance singleton: one
// construction per process, reused across every Load/Validate call.
func validatorInstance() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
	})
	return instance
}

// Validate checks o against its struct tags, returning every violation
// joined into a single error (spec §6.4's generate() is expected to
// reject a malformed options object before touching the AST).
func Validate(o Options) error {
	if err := validatorInstance().Struct(o); err != nil {
		return fmt.Errorf("genopts: invalid options: %w", err)
	}
	return nil
}

// Load reads and validates an Options value from a YAML configuration
// file (SPEC_FULL.md's --config flowc.yaml wiring). A missing or empty
// file yields the zero-value Options (every field optional), matching
// the teacher's convention of defaulting rather than failing on an
// unconfigured run.
func Load(path string) (Options, error) {
	var o Options
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return o, nil
		}
		return o, fmt.Errorf("genopts: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &o); err != nil {
		return o, fmt.Errorf("genopts: parsing %s: %w", path, err)
	}
	if err := Validate(o); err != nil {
		return o, err
	}
	return o, nil
}
