// annotations.go defines the annotation types, argument constants, and parser for the
// Vantage WGSL shader pre-processor. Annotations are single-line WGSL comments prefixed
// with @vantage: that drive automatic struct injection, bind group declaration, and
// resource provider registration. The parsed results are stored as Annotation values and
// consumed by the PreProcessor and the backdrop composition layer to wire GPU resources
// without manual low-level plumbing.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// annotationPrefix is the marker that identifies a Vantage annotation within a WGSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@vantage:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
// Each type corresponds to a distinct pre-processor action and produces different
// fields on the resulting Annotation struct.
type AnnotationType string

const (
	// annotationTypeInclude injects the WGSL source of a registered struct definition
	// into the shader at the annotation site. The struct source is embedded from the
	// corresponding Go GPU type's .wgsl asset file. This annotation does not produce
	// a declaration and is consumed entirely during pre-processing.
	//
	// Syntax: //@vantage:include <struct_type>
	//
	// Example: //@vantage:include grid_uniform
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup generates a WGSL @group/@binding variable declaration
	// and appends an Annotation to the PreProcessor's declarations list. The declaration
	// carries the group index, binding index, and the resolved struct type, enabling the
	// backdrop to semantically match bindings to resource providers without string lookups.
	//
	// Syntax: //@vantage:group <group> <binding> <address_space> <var_name> <type>
	//
	// Example: //@vantage:group 0 0 storage_uniform grid grid_uniform
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider registers a resource provider identity for a group and binding
	// without generating any WGSL output. The WGSL binding declaration remains hand-written
	// in the shader source directly below the annotation. This is used for bindings that
	// contain raw WGSL types which have no corresponding registered struct in the
	// pre-processor's struct registry.
	//
	// Syntax: //@vantage:provider <group> <binding> <provider_identity>
	//
	// Example: //@vantage:provider 0 0 sky
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation represents a single parsed @vantage: annotation from a WGSL shader source line.
// It carries the annotation type, its arguments, the source line number, and optional
// group/binding indices. Annotations of type AnnotationTypeBindingGroup and
// AnnotationTypeProvider are appended to the PreProcessor's declarations list for
// consumption by the backdrop during resource wiring.
type Annotation struct {
	// Type identifies which annotation was parsed (include, group, or provider).
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:  [0] = struct type key (e.g. "sky_uniform")
	//   - group:    [0] = address space, [1] = var name, [2] = WGSL type key
	//   - provider: [0] = provider identity (e.g. "sky", "grid")
	Args []AnnotationArg

	// Line is the 1-based line number in the original WGSL source where this annotation
	// was found. Used for error reporting.
	Line int

	// Group is the @group index for group and provider annotations. Nil for include annotations.
	Group *int

	// Binding is the @binding index for group and provider annotations. Nil for include annotations.
	Binding *int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
// Arguments fall into three categories: struct type keys (used with include and group),
// address space identifiers (used with group), and provider identity keys (used with provider).
type AnnotationArg string

// ── Struct type arguments ──────────────────────────────────────────────────────
// These identify registered WGSL struct types. They can appear in @vantage:include
// annotations (to inject the struct source) and in @vantage:group annotations (as the
// type field, optionally wrapped in array<>). Each maps to a Go GPU type with an
// embedded .wgsl asset file.

const (
	// AnnotationArgSkyUniform identifies the SkyUniform struct.
	// Source: engine/sky/assets/sky_uniform.wgsl
	AnnotationArgSkyUniform AnnotationArg = "sky_uniform"

	// AnnotationArgGridUniform identifies the GridUniform struct.
	// Source: engine/grid/assets/grid_uniform.wgsl
	AnnotationArgGridUniform AnnotationArg = "grid_uniform"
)

// ── Address space arguments ────────────────────────────────────────────────────
// These specify the WGSL variable address space in @vantage:group annotations.
// They map to WGSL var<> declarations.

const (
	// annotationArgStorageTypeUniform maps to var<uniform> in WGSL.
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"

	// annotationArgStorageTypeRead maps to var<storage, read> in WGSL.
	annotationArgStorageTypeRead AnnotationArg = "storage_read"

	// annotationArgStorageTypeReadWrite maps to var<storage, read_write> in WGSL.
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// ── Provider identity arguments ────────────────────────────────────────────────
// These identify which backdrop-level resource provider owns a bind group. Used in
// @vantage:provider annotations and matched by the backdrop's draw call setup logic
// to wire the correct BindGroupProvider for each group.

const (
	// AnnotationArgSky identifies the sky pass provider (sky uniform buffer).
	AnnotationArgSky AnnotationArg = "sky"

	// AnnotationArgGrid identifies the grid pass provider (grid uniform buffer).
	AnnotationArgGrid AnnotationArg = "grid"
)

// validStructTypes lists all AnnotationArg values that are accepted as struct type
// arguments in @vantage:include and @vantage:group annotations. Each entry must have
// a corresponding registryEntry in the PreProcessor's structRegistry.
var validStructTypes = []AnnotationArg{
	AnnotationArgSkyUniform,
	AnnotationArgGridUniform,
}

// validAddressSpaces lists all AnnotationArg values that are accepted as address
// space arguments in @vantage:group annotations. Each maps to a WGSL var<> declaration.
var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

// validProviderIdentities lists all AnnotationArg values that are accepted as
// provider identity arguments in @vantage:provider annotations. Each maps to a
// backdrop-level resource provider used during draw call setup wiring.
var validProviderIdentities = []AnnotationArg{
	AnnotationArgSky,
	AnnotationArgGrid,
}

// parseAnnotation attempts to parse a single line of WGSL source as a @vantage: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix. Returns
// a populated Annotation for valid annotations, or an error describing the problem for
// malformed annotations with correct prefix but invalid syntax or unknown arguments.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @vantage annotation", lineNum)
	}

	switch args[0] {
	case string(annotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @vantage include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q in @vantage include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: annotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	case string(AnnotationTypeBindingGroup):
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: @vantage group annotation requires exactly four arguments (group number, binding number, address space, struct type)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q in @vantage group annotation: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @vantage group annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q in @vantage group annotation", lineNum, args[3])
		}
		typeArg := args[5]
		if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
			inner = strings.TrimSuffix(inner, ">")
			if !slices.Contains(validStructTypes, AnnotationArg(inner)) {
				return nil, fmt.Errorf("line %d: unknown array element type %q in @vantage group annotation", lineNum, inner)
			}
		} else {
			if !slices.Contains(validStructTypes, AnnotationArg(typeArg)) {
				return nil, fmt.Errorf("line %d: unknown struct type %q in @vantage group annotation", lineNum, typeArg)
			}
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	case string(AnnotationTypeProvider):
		if len(args) != 4 {
			return nil, fmt.Errorf("line %d: @vantage provider annotation requires exactly three arguments (group, binding, provider identity)", lineNum)
		}
		groupInt, err := strconv.Atoi(args[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group number %q: %v", lineNum, args[1], err)
		}
		bindingInt, err := strconv.Atoi(args[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binding number %q in @vantage provider annotation: %v", lineNum, args[2], err)
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q in @vantage provider annotation", lineNum, args[3])
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    []AnnotationArg{AnnotationArg(args[3])},
			Line:    lineNum,
			Group:   &groupInt,
			Binding: &bindingInt,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @vantage annotation type %q", lineNum, args[0])
	}
}
