package detector

import (
	"github.com/adrianliechti/redactor/pkg/pii"
)

type PatternSet struct {
	Category pii.Category
	Patterns []string
}

// DefaultPatterns are matched case-insensitively, in this order.
var DefaultPatterns = []PatternSet{
	{
		Category: pii.CategoryPersonName,
		Patterns: []string{
			`(?:Name|Student|Candidate|Person|Individual|Father|Mother)[:\s]*([A-Z][A-Z\s]+|[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`,
			`\b([A-Z]{3,20})\b(?!\s*(?:UNIVERSITY|DELHI|MUMBAI|INDIA|RANK|BASED|OPTION|DETAILS))`,
			`:\s*([A-Z][a-zA-Z]{2,25})\b(?!\s*(?:Number|Details|Fee|Total|Amount|Date|Code|ID|Roll))`,
			`\b([A-Z][a-z]{3,20})\b(?=\s*\d{6,15})`,
			`\b([A-Z][A-Z\s]{5,}|[A-Z][a-z]+\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)\b`,
			`(?:Father|Mother|Student|Candidate)\s+(?:Name|name)\s+([A-Z][A-Z\s]+|[A-Z][a-z\s]+)`,
			`(?:^|\n)([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\s*[\n:]`,
		},
	},
	{
		Category: pii.CategoryIDNumber,
		Patterns: []string{
			`\b(\d{8,18})\b`,
			`(?:Number|Roll|Registration|ID|Code|Ref|Reference)[:\s]*(\d{6,20})`,
			`\b([A-Z]{1,3}\d{6,15})\b`,
			`\b(\d{2,4}[-/]\d{2,8}[-/]\d{2,8})\b`,
			`(?:Application|Admission|Student)\s*(?:No|Number)[:\s]*(\d{6,20})`,
			`\b([A-Z]{4}\d{7}[A-Z]?)\b`,
			`\b([A-Z]{5}\d{4}[A-Z])\b`,
		},
	},
	{
		Category: pii.CategoryPhoneNumber,
		Patterns: []string{
			`(\+\d{1,3}[-\s]?\d{6,12})`,
			`\b([6-9]\d{9})\b`,
			`\b(0\d{2,4}[-\s]?\d{6,8})\b`,
			`\b(\d{3}[-\s]?\d{3}[-\s]?\d{4})\b`,
			`\b(\(\d{3}\)\s?\d{3}[-\s]?\d{4})\b`,
			`(?:Phone|Mobile|Contact|Tel)[:\s]*(\+?\d[\d\s\-\(\)]{8,15})`,
		},
	},
	{
		Category: pii.CategoryEmailAddress,
		Patterns: []string{
			`\b([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`,
			`(?:Email|E-mail)[:\s]*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`,
			`\b([a-zA-Z0-9._%+-]+@(?:edu|ac|university|college)\.[a-zA-Z.]{2,})\b`,
		},
	},
	{
		Category: pii.CategoryDate,
		Patterns: []string{
			`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`,
			`\b(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})\b`,
			`\b(\d{2,4}[-/]\d{1,2}[-/]\d{1,2})\b`,
			`(?:Date|DOB|Born|Birth|Issued|Valid)[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
			`(?:from|to|until|valid till)[:\s]*(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`,
		},
	},
	{
		Category: pii.CategoryAddress,
		Patterns: []string{
			`\b(\d+[A-Za-z]*[-/,\s]*[A-Za-z][a-zA-Z\s,]*(?:Road|Street|Lane|Avenue|Colony|Nagar|Puram|Plaza))\b`,
			`\b(\d{5,6})\b`,
			`(?:City|State|District)[:\s]*([A-Za-z][a-zA-Z\s]{2,30})`,
			`(?:Address|Location)[:\s]*([A-Za-z0-9\s,.-]{10,100})`,
			`([A-Za-z0-9][a-zA-Z0-9\s,.-]*(?:\n[A-Za-z0-9][a-zA-Z0-9\s,.-]*){1,3})`,
		},
	},
}

// DefaultExclusions are institution and form boilerplate words that are never PII.
var DefaultExclusions = []string{
	"university", "college", "institute", "department", "government",
	"application", "form", "details", "profile", "payment", "fee",
	"services", "counselling", "admission", "verification", "document",
	"available", "choice", "filling", "allotment", "result", "print",
	"system", "generated", "letter", "view", "download", "verify",
	"mobile", "email", "number", "verified", "locked", "attempt",
	"candidate", "lateral", "entry", "programme", "diploma", "holder",
	"visit", "current", "session", "expired", "within", "minute",
	"guru", "gobind", "singh", "indraprastha", "delhi", "ggsipu",
	"programmes", "holders", "last", "your", "will",
	"simplifying", "process",
}
