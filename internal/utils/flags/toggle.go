// Package flags provides helpers for registering fleetci's shared flag vocabulary on Cobra commands.
package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue        = "true"
	toggleFalseCanonicalValue       = "false"
	toggleParseErrorTemplate        = "invalid toggle value %q"
	toggleDefaultTruePlaceholder    = "<YES|no>"
	toggleDefaultFalsePlaceholder   = "<yes|NO>"
	toggleUsageBareTemplate         = "`%s`"
	toggleUsageTemplate             = "`%s` %s"
	argumentTerminatorConstant      = "--"
	longFlagPrefixConstant          = "--"
	shortFlagPrefixConstant         = "-"
	assignmentSeparatorConstant     = "="
	pflagBooleanTypeNameConstant    = "bool"
	toggleShorthandLengthConstraint = 1
)

// toggleLiteralValues maps every accepted spelling to its boolean meaning.
var toggleLiteralValues = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
	"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
}

var (
	toggleRegistryMutex     sync.RWMutex
	registeredToggleNames   = map[string]struct{}{}
	registeredToggleLetters = map[string]struct{}{}
)

// AddToggleFlag registers name as a yes/no style boolean flag. The flag
// accepts true/false, yes/no, on/off, 1/0 and single letter spellings in any
// case, and a bare --name counts as true. When target is non nil it tracks
// the parsed value.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(toggleValue, name, shorthand, usage)
	} else {
		flagSet.Var(toggleValue, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
	registeredFlag.Usage = formatToggleUsage(usage, defaultValue)

	toggleRegistryMutex.Lock()
	registeredToggleNames[name] = struct{}{}
	if len(shorthand) > 0 {
		registeredToggleLetters[shorthand] = struct{}{}
	}
	toggleRegistryMutex.Unlock()
}

// NormalizeToggleArguments rewrites "--flag value" and "-f value" pairs for
// registered toggle flags into their "=" forms so pflag does not treat the
// detached value as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		rewritten, consumed := rewriteToggleArgument(arguments, index)
		if consumed == 0 {
			normalized = append(normalized, current)
			index++
			continue
		}

		normalized = append(normalized, rewritten)
		index += consumed
	}

	return normalized
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDefaultFalsePlaceholder
	if defaultValue {
		placeholder = toggleDefaultTruePlaceholder
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsageBareTemplate, placeholder)
	}
	return fmt.Sprintf(toggleUsageTemplate, placeholder, trimmedDescription)
}

// rewriteToggleArgument inspects the argument at index and, when it addresses
// a registered toggle flag with a detached value, folds the pair into a single
// "flag=value" argument. The returned count reports how many input arguments
// were consumed; zero means the argument is not a toggle reference.
func rewriteToggleArgument(arguments []string, index int) (string, int) {
	current := arguments[index]
	if !addressesRegisteredToggle(current) {
		return "", 0
	}

	if strings.Contains(current, assignmentSeparatorConstant) {
		return current, 1
	}
	if index+1 >= len(arguments) {
		return current, 1
	}

	nextArgument := arguments[index+1]
	if strings.HasPrefix(nextArgument, shortFlagPrefixConstant) {
		return current, 1
	}

	return current + assignmentSeparatorConstant + nextArgument, 2
}

func addressesRegisteredToggle(argument string) bool {
	if strings.HasPrefix(argument, longFlagPrefixConstant) {
		name := strings.TrimPrefix(argument, longFlagPrefixConstant)
		if assignmentIndex := strings.Index(name, assignmentSeparatorConstant); assignmentIndex >= 0 {
			name = name[:assignmentIndex]
		}
		if len(name) == 0 {
			return false
		}

		toggleRegistryMutex.RLock()
		defer toggleRegistryMutex.RUnlock()
		_, registered := registeredToggleNames[name]
		return registered
	}

	if strings.HasPrefix(argument, shortFlagPrefixConstant) {
		shorthand := strings.TrimPrefix(argument, shortFlagPrefixConstant)
		if assignmentIndex := strings.Index(shorthand, assignmentSeparatorConstant); assignmentIndex >= 0 {
			shorthand = shorthand[:assignmentIndex]
		}
		if len(shorthand) != toggleShorthandLengthConstraint {
			return false
		}

		toggleRegistryMutex.RLock()
		defer toggleRegistryMutex.RUnlock()
		_, registered := registeredToggleLetters[shorthand]
		return registered
	}

	return false
}

// toggleFlagValue adapts the yes/no vocabulary onto pflag's Value interface
// while reporting itself as a plain bool so GetBool keeps working.
type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleFlagValue{currentValue: defaultValue, target: target}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}

	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return pflagBooleanTypeNameConstant
}

func parseToggleValue(rawValue string) (bool, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(normalizedValue) == 0 {
		return true, nil
	}

	parsedValue, recognized := toggleLiteralValues[normalizedValue]
	if !recognized {
		return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	return parsedValue, nil
}
