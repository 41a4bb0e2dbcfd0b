package templates

const (
	// ArtifactDirectory is the repository-relative directory holding generated workflow files.
	ArtifactDirectory = ".github/workflows"

	permissionLevelRead  = "read"
	permissionLevelWrite = "write"
)

// InputKind identifies the scalar type of an artifact input.
type InputKind string

// Supported input kinds.
const (
	InputKindString  InputKind = "string"
	InputKindBoolean InputKind = "boolean"
)

// InputSpec describes one artifact input and its documented default.
type InputSpec struct {
	Name    string
	Kind    InputKind
	Default any
}

// ConditionalGrant adds permissions when its trigger input is truthy.
type ConditionalGrant struct {
	TriggerInput string
	Permissions  map[string]string
}

// ArtifactSpec is the static description of one reusable workflow artifact.
// Input order is significant: the renderer emits required inputs before
// optional ones, each group in declaration order.
type ArtifactSpec struct {
	Name                   string
	FileName               string
	DisplayName            string
	ReferencePath          string
	RequiredInputs         []InputSpec
	OptionalInputs         []InputSpec
	BasePermissions        map[string]string
	ConditionalPermissions []ConditionalGrant
}

var artifactRegistry = []ArtifactSpec{
	{
		Name:          "cpp-quality",
		FileName:      "cpp-quality.yml",
		DisplayName:   "C++ Quality",
		ReferencePath: ArtifactDirectory + "/cpp-quality.yml",
		RequiredInputs: []InputSpec{
			{Name: "docker_image", Kind: InputKindString, Default: ""},
		},
		OptionalInputs: []InputSpec{
			{Name: "compile_commands_path", Kind: InputKindString, Default: "build"},
			{Name: "source_setup", Kind: InputKindString, Default: ""},
			{Name: "enable_clang_format", Kind: InputKindBoolean, Default: false},
			{Name: "enable_file_naming", Kind: InputKindBoolean, Default: false},
			{Name: "ban_cout", Kind: InputKindBoolean, Default: false},
			{Name: "ban_new", Kind: InputKindBoolean, Default: false},
			{Name: "enforce_doctest", Kind: InputKindBoolean, Default: false},
			{Name: "enable_flawfinder", Kind: InputKindBoolean, Default: false},
			{Name: "enable_sarif", Kind: InputKindBoolean, Default: false},
			{Name: "enable_sanitizers", Kind: InputKindBoolean, Default: false},
			{Name: "enable_iwyu", Kind: InputKindBoolean, Default: false},
		},
		BasePermissions: map[string]string{
			"actions":       permissionLevelRead,
			"contents":      permissionLevelRead,
			"packages":      permissionLevelRead,
			"pull-requests": permissionLevelWrite,
		},
		ConditionalPermissions: []ConditionalGrant{
			{TriggerInput: "enable_flawfinder", Permissions: map[string]string{"security-events": permissionLevelWrite}},
			{TriggerInput: "enable_sarif", Permissions: map[string]string{"security-events": permissionLevelWrite}},
		},
	},
	{
		Name:          "python-quality",
		FileName:      "python-quality.yml",
		DisplayName:   "Python Quality",
		ReferencePath: ArtifactDirectory + "/python-quality.yml",
		OptionalInputs: []InputSpec{
			{Name: "python_linter", Kind: InputKindString, Default: "ruff"},
			{Name: "source_dirs", Kind: InputKindString, Default: "src"},
			{Name: "test_dirs", Kind: InputKindString, Default: "tests"},
			{Name: "enable_tests", Kind: InputKindBoolean, Default: true},
		},
		BasePermissions: map[string]string{
			"contents":      permissionLevelRead,
			"pull-requests": permissionLevelWrite,
		},
	},
	{
		Name:          "infra-lint",
		FileName:      "infra-lint.yml",
		DisplayName:   "Infrastructure Lint",
		ReferencePath: ArtifactDirectory + "/infra-lint.yml",
		OptionalInputs: []InputSpec{
			{Name: "enable_shellcheck", Kind: InputKindBoolean, Default: false},
			{Name: "enable_hadolint", Kind: InputKindBoolean, Default: false},
			{Name: "enable_cmake_lint", Kind: InputKindBoolean, Default: false},
			{Name: "enable_dangerous_workflows", Kind: InputKindBoolean, Default: false},
			{Name: "enable_binary_artifacts", Kind: InputKindBoolean, Default: false},
			{Name: "enable_gitleaks", Kind: InputKindBoolean, Default: false},
		},
		BasePermissions: map[string]string{
			"actions":       permissionLevelRead,
			"contents":      permissionLevelRead,
			"pull-requests": permissionLevelWrite,
		},
	},
	{
		Name:          "sast-python",
		FileName:      "sast-python.yml",
		DisplayName:   "Python SAST",
		ReferencePath: ArtifactDirectory + "/sast-python.yml",
		OptionalInputs: []InputSpec{
			{Name: "enable_semgrep", Kind: InputKindBoolean, Default: true},
			{Name: "enable_pip_audit", Kind: InputKindBoolean, Default: true},
			{Name: "enable_codeql", Kind: InputKindBoolean, Default: false},
		},
		BasePermissions: map[string]string{
			"actions":         permissionLevelRead,
			"contents":        permissionLevelRead,
			"pull-requests":   permissionLevelWrite,
			"security-events": permissionLevelWrite,
		},
	},
}

// Registry returns every artifact specification in declaration order.
func Registry() []ArtifactSpec {
	registryCopy := make([]ArtifactSpec, len(artifactRegistry))
	copy(registryCopy, artifactRegistry)
	return registryCopy
}

// LookupArtifact finds an artifact specification by name.
func LookupArtifact(artifactName string) (ArtifactSpec, bool) {
	for _, artifactSpecification := range artifactRegistry {
		if artifactSpecification.Name == artifactName {
			return artifactSpecification, true
		}
	}
	return ArtifactSpec{}, false
}

// ArtifactNames lists registry artifact names in declaration order.
func ArtifactNames() []string {
	artifactNames := make([]string, 0, len(artifactRegistry))
	for _, artifactSpecification := range artifactRegistry {
		artifactNames = append(artifactNames, artifactSpecification.Name)
	}
	return artifactNames
}
