package llm

import (
	"fmt"

	"github.com/adrianliechti/redactor/pkg/pii"
)

const promptNames = `Is "%[1]s" the name of a person?

Answer YES if it is any of:
- a given name or surname, e.g. ASHISH, KUMAR, SANGEETA
- a full name in any casing
- the name of a parent, student or candidate on a form

Answer NO only if it is clearly:
- a field label such as "Name:" or "Candidate:"
- a generic word such as "Based", "Rank" or "Details"
- a system term such as "Registration" or "Application"

Examples:
- "ASHISH" -> YES
- "Name:" -> NO (label)
- "Based" -> NO (generic)

Answer: YES or NO`

const promptIDs = `Is "%[1]s" a personal identifier that must be hidden?

Answer YES if it is any of:
- an application, roll, student or registration number
- a national identity, tax or account number
- any long number of 6 or more digits that identifies a person

Answer NO only if it is:
- a small number such as 1, 10 or 464
- a year such as 2024
- a score, percentage or version number

Examples:
- "128230000295" -> YES
- "2023" -> NO (year)

Answer: YES or NO`

const promptPhones = `Is "%[1]s" a phone number that must be hidden?

Answer YES if it is a mobile, landline or contact number with 10 or more digits.

Answer NO if it is a short code, a year or a technical number.

Answer: YES or NO`

const promptGeneric = `Is "%[1]s" personal information that must be hidden?

Answer YES if it identifies a specific person, such as a home address,
a birth date or another private detail.

Answer NO only if it is clearly a label such as "Date:" or "Address:",
a system term, or a common word without personal meaning.

When in doubt, answer YES.

Answer: YES or NO`

func buildPrompt(text, surrounding string, category pii.Category) string {
	base := fmt.Sprintf("TEXT: %q\nCONTEXT: %q\n\n", text, surrounding)

	var question string

	switch category {
	case pii.CategoryPersonName:
		question = promptNames

	case pii.CategoryIDNumber:
		question = promptIDs

	case pii.CategoryPhoneNumber:
		question = promptPhones

	default:
		question = promptGeneric
	}

	return base + fmt.Sprintf(question, text)
}
