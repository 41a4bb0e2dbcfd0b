package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListOpenConstant      = "<"
	choiceListCloseConstant     = ">"
	choiceListSeparatorConstant = "|"
	choiceUsageBareTemplate     = "`%s`"
	choiceUsageTemplate         = "`%s` %s"
)

// FormatChoiceUsage renders flag usage for enumerated values, capitalizing the
// default choice inside the placeholder so help output reads like "<TEXT|json>".
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholder(defaultChoice, choices)
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageBareTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageTemplate, placeholder, description)
}

func choicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	var placeholder strings.Builder
	placeholder.WriteString(choiceListOpenConstant)

	seenChoices := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadyListed := seenChoices[normalizedChoice]; alreadyListed {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if len(seenChoices) > 1 {
			placeholder.WriteString(choiceListSeparatorConstant)
		}
		if normalizedChoice == normalizedDefault {
			placeholder.WriteString(strings.ToUpper(trimmedChoice))
		} else {
			placeholder.WriteString(trimmedChoice)
		}
	}

	placeholder.WriteString(choiceListCloseConstant)
	return placeholder.String()
}
