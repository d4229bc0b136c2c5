package composition

import "fmt"

// InvalidInputError is raised by the Preparer for missing/invalid references,
// inverted or negative size ranges, an unknown anchor, a null composition, or a
// missing worldId. It is always fatal: the orchestrator records it and skips
// subsequent stages.
type InvalidInputError struct {
	FeatureID string
	Reason    string
}

func (e *InvalidInputError) Error() string {
	if e.FeatureID == "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input for feature %q: %s", e.FeatureID, e.Reason)
}

// PlacementExhaustedError is raised by BiomeComposer when no free cells satisfy a
// feature's positions after all outer retries. Non-fatal unless the feature has
// Force set.
type PlacementExhaustedError struct {
	FeatureID string
	Attempts  int
}

func (e *PlacementExhaustedError) Error() string {
	return fmt.Sprintf("placement exhausted for feature %q after %d attempts", e.FeatureID, e.Attempts)
}

// UnknownTargetError is raised by PointComposer or FlowComposer when a snap target or
// flow endpoint was never placed (not in the composition, or placement itself failed).
type UnknownTargetError struct {
	FeatureID string
	Target    string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("feature %q: unknown or unplaced target %q", e.FeatureID, e.Target)
}

// UnreachableError is raised by FlowComposer when no path exists under the current
// terrain/avoid constraints and the flow has Force=true.
type UnreachableError struct {
	FeatureID string
	From, To  string
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("feature %q: no path from %q to %q", e.FeatureID, e.From, e.To)
}

// TemplateNotFoundError is raised by StructureDesigner when a Structure names a
// template the TemplateProvider does not know. Always fatal.
type TemplateNotFoundError struct {
	FeatureID string
	Template  string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("feature %q: template %q not found", e.FeatureID, e.Template)
}

// InternalError marks an invariant violation: a bug, never expected in well-formed
// input. No pipeline stage currently returns it, and the orchestrator has no
// handling of its own for it.
type InternalError struct {
	Reason string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal error: %s", e.Reason)
}
