package llm

import (
	_ "embed"
	"strings"
)

//go:embed prompts/idea_v1.txt
var ideaPromptV1 string

const ideaPlaceholder = "{{IDEA}}"

// BuildIdeaPrompt embeds the idea text verbatim into the seven-section evaluation template.
func BuildIdeaPrompt(ideaText string) string {
	return strings.Replace(ideaPromptV1, ideaPlaceholder, ideaText, 1)
}

// IdeaSections lists the headings the evaluation prompt asks for, in order.
func IdeaSections() []string {
	return []string{
		"იდეის მოკლე რეზიუმე",
		"მიზნობრივი აუდიტორია",
		"მონეტიზაციის გზები",
		"ანალოგიური პროდუქტები ან კონკურენტები",
		"იდეის სიძლიერეები და სუსტი მხარეები",
		"გრძელვადიანი მდგრადობის პროგნოზი",
		"რეკომენდაცია იდეის გაუმჯობესებისთვის",
	}
}
