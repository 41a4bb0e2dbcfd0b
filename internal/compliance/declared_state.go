package compliance

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	declaredStateTagKey       = "tag"
	declaredStateShaKey       = "sha"
	declaredStatePresetKey    = "preset"
	declaredStateWorkflowsKey = "workflows"
)

// DeclaredStateFormatError reports a declared-state document whose shape is not recognized.
type DeclaredStateFormatError struct {
	Field   string
	Message string
}

// Error describes the malformed field.
func (formatError *DeclaredStateFormatError) Error() string {
	if len(formatError.Field) == 0 {
		return fmt.Sprintf("declared state: %s", formatError.Message)
	}
	return fmt.Sprintf("declared state field %q: %s", formatError.Field, formatError.Message)
}

// ParseDeclaredState parses a declared-state document, rejecting unrecognized shapes.
//
// Recognized top-level keys are tag, sha, preset, and workflows; every other
// top-level key must map to a mapping of per-artifact override values. A
// non-empty sha must be a full 40-character lowercase hex digest.
func ParseDeclaredState(content []byte) (*DeclaredState, error) {
	var documentNode yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &documentNode); unmarshalError != nil {
		return nil, &DeclaredStateFormatError{Message: unmarshalError.Error()}
	}
	if len(documentNode.Content) == 0 {
		return nil, &DeclaredStateFormatError{Message: "document is empty"}
	}

	rootNode := documentNode.Content[0]
	if rootNode.Kind != yaml.MappingNode {
		return nil, &DeclaredStateFormatError{Message: "top level must be a mapping"}
	}

	declaredState := &DeclaredState{Overrides: map[string]map[string]any{}}
	for pairIndex := 0; pairIndex+1 < len(rootNode.Content); pairIndex += 2 {
		keyNode := rootNode.Content[pairIndex]
		valueNode := rootNode.Content[pairIndex+1]
		switch keyNode.Value {
		case declaredStateTagKey:
			tagValue, scalarError := scalarStringValue(keyNode.Value, valueNode)
			if scalarError != nil {
				return nil, scalarError
			}
			declaredState.Pin.Tag = tagValue
		case declaredStateShaKey:
			shaValue, scalarError := scalarStringValue(keyNode.Value, valueNode)
			if scalarError != nil {
				return nil, scalarError
			}
			if len(shaValue) > 0 && !IsCanonicalSHA(shaValue) {
				return nil, &DeclaredStateFormatError{Field: declaredStateShaKey, Message: "must be a 40-character lowercase hex digest"}
			}
			declaredState.Pin.SHA = shaValue
		case declaredStatePresetKey:
			presetValue, scalarError := scalarStringValue(keyNode.Value, valueNode)
			if scalarError != nil {
				return nil, scalarError
			}
			declaredState.Preset = presetValue
		case declaredStateWorkflowsKey:
			workflowNames, sequenceError := stringSequenceValue(keyNode.Value, valueNode)
			if sequenceError != nil {
				return nil, sequenceError
			}
			declaredState.Workflows = workflowNames
		default:
			if valueNode.Kind != yaml.MappingNode {
				return nil, &DeclaredStateFormatError{Field: keyNode.Value, Message: "must be a mapping of override values"}
			}
			overrideValues := map[string]any{}
			if decodeError := valueNode.Decode(&overrideValues); decodeError != nil {
				return nil, &DeclaredStateFormatError{Field: keyNode.Value, Message: decodeError.Error()}
			}
			declaredState.Overrides[keyNode.Value] = overrideValues
		}
	}

	return declaredState, nil
}

func scalarStringValue(fieldName string, valueNode *yaml.Node) (string, error) {
	if valueNode.Kind != yaml.ScalarNode {
		return "", &DeclaredStateFormatError{Field: fieldName, Message: "must be a scalar string"}
	}
	var stringValue string
	if decodeError := valueNode.Decode(&stringValue); decodeError != nil {
		return "", &DeclaredStateFormatError{Field: fieldName, Message: decodeError.Error()}
	}
	return stringValue, nil
}

func stringSequenceValue(fieldName string, valueNode *yaml.Node) ([]string, error) {
	if valueNode.Kind != yaml.SequenceNode {
		return nil, &DeclaredStateFormatError{Field: fieldName, Message: "must be a sequence of artifact names"}
	}
	sequenceValues := make([]string, 0, len(valueNode.Content))
	for _, entryNode := range valueNode.Content {
		if entryNode.Kind != yaml.ScalarNode {
			return nil, &DeclaredStateFormatError{Field: fieldName, Message: "entries must be scalar strings"}
		}
		sequenceValues = append(sequenceValues, entryNode.Value)
	}
	return sequenceValues, nil
}
