package templates

// Preset names accepted by the render command.
const (
	PresetMinimal     = "minimal"
	PresetRecommended = "recommended"
	PresetFull        = "full"
)

var presetCatalog = map[string]map[string]map[string]any{
	PresetMinimal: {
		"cpp-quality":    {},
		"python-quality": {},
		"infra-lint":     {},
		"sast-python": {
			"enable_semgrep":   true,
			"enable_pip_audit": true,
		},
	},
	PresetRecommended: {
		"cpp-quality": {
			"enable_clang_format": true,
			"enable_file_naming":  true,
			"enable_flawfinder":   true,
		},
		"python-quality": {},
		"infra-lint": {
			"enable_shellcheck": true,
			"enable_hadolint":   true,
			"enable_gitleaks":   true,
		},
		"sast-python": {
			"enable_semgrep":   true,
			"enable_pip_audit": true,
		},
	},
	PresetFull: {
		"cpp-quality": {
			"enable_clang_format": true,
			"enable_file_naming":  true,
			"ban_cout":            true,
			"ban_new":             true,
			"enforce_doctest":     true,
			"enable_flawfinder":   true,
			"enable_sarif":        true,
			"enable_sanitizers":   true,
			"enable_iwyu":         true,
		},
		"python-quality": {},
		"infra-lint": {
			"enable_shellcheck":          true,
			"enable_hadolint":            true,
			"enable_cmake_lint":          true,
			"enable_dangerous_workflows": true,
			"enable_binary_artifacts":    true,
			"enable_gitleaks":            true,
		},
		"sast-python": {
			"enable_semgrep":   true,
			"enable_pip_audit": true,
			"enable_codeql":    true,
		},
	},
}

// Preset returns the per-artifact input selections for a named preset.
func Preset(presetName string) (map[string]map[string]any, bool) {
	presetSelections, presetKnown := presetCatalog[presetName]
	if !presetKnown {
		return nil, false
	}
	presetCopy := make(map[string]map[string]any, len(presetSelections))
	for artifactName, inputSelections := range presetSelections {
		inputCopy := make(map[string]any, len(inputSelections))
		for inputName, inputValue := range inputSelections {
			inputCopy[inputName] = inputValue
		}
		presetCopy[artifactName] = inputCopy
	}
	return presetCopy, true
}

// PresetNames lists the available preset names.
func PresetNames() []string {
	return []string{PresetMinimal, PresetRecommended, PresetFull}
}
