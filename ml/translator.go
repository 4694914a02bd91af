package ml

import (
	"strings"

	"github.com/acneai/backend/model"
)

// phrasePair is one English to Telugu substitution. Order matters: pairs are
// applied top to bottom, so "daily" is consumed before the longer "twice
// daily" and "once daily" phrases are reached.
type phrasePair struct {
	en string
	te string
}

var termsEnTe = []phrasePair{
	{"apply", "రాయండి"},
	{"take", "తీసుకోండి"},
	{"daily", "రోజూ"},
	{"twice daily", "రోజుకు రెండుసార్లు"},
	{"once daily", "రోజుకు ఒకసారి"},
	{"at night", "రాత్రి"},
	{"morning", "ఉదయం"},
	{"with food", "ఆహారంతో"},
	{"weeks", "వారాలు"},
	{"months", "నెలలు"},
	{"thin layer", "పలుచని పొర"},
	{"affected areas", "ప్రభావిత ప్రాంతాలు"},
	{"cleansing", "శుభ్రం చేయడం"},
	{"avoid sun", "ఎండలో వెళ్ళకండి"},
	{"sunscreen", "సన్‌స్క్రీన్"},
	{"moisturizer", "మాయిశ్చరైజర్"},
	{"medication", "మందు"},
	{"dosage", "మోతాదు"},
	{"warnings", "హెచ్చరికలు"},
	{"follow-up", "అనుసరణ"},
}

// TranslateText translates text into the target language. Target "en"
// returns the text unchanged; every other target lowercases the text and
// applies the Telugu phrase substitutions in table order.
func TranslateText(text, targetLanguage string) string {
	if targetLanguage == "en" {
		return text
	}
	translated := strings.ToLower(text)
	for _, p := range termsEnTe {
		translated = strings.ReplaceAll(translated, p.en, p.te)
	}
	return translated
}

// TranslatedMedication mirrors a medication with its fields rendered in
// Telugu. The medicine name stays in English.
type TranslatedMedication struct {
	Name         string   `json:"name"`
	NameOriginal string   `json:"name_original"`
	Type         string   `json:"type"`
	Dosage       string   `json:"dosage"`
	Frequency    string   `json:"frequency"`
	Duration     string   `json:"duration"`
	Instructions string   `json:"instructions"`
	Warnings     []string `json:"warnings"`
}

// TranslatedPrescription is the translated rendering of a prescription's
// patient-facing content.
type TranslatedPrescription struct {
	Medications              interface{} `json:"medications"`
	LifestyleRecommendations []string    `json:"lifestyle_recommendations"`
	FollowUpInstructions     string      `json:"follow_up_instructions"`
	Language                 string      `json:"language"`
	LanguageName             string      `json:"language_name"`
}

// TranslatePrescription renders prescription content in the target language.
// Target "en" passes the content through untouched.
func TranslatePrescription(medications []model.Medication, recommendations []string, followUp, targetLanguage string) TranslatedPrescription {
	if targetLanguage == "en" {
		return TranslatedPrescription{
			Medications:              medications,
			LifestyleRecommendations: recommendations,
			FollowUpInstructions:     followUp,
			Language:                 "en",
			LanguageName:             "English",
		}
	}

	translatedMeds := make([]TranslatedMedication, 0, len(medications))
	for _, med := range medications {
		medType := "ఓరల్"
		if med.Type == "topical" {
			medType = "టాపికల్"
		}
		warnings := make([]string, 0, len(med.Warnings))
		for _, w := range med.Warnings {
			warnings = append(warnings, TranslateText(w, "te"))
		}
		translatedMeds = append(translatedMeds, TranslatedMedication{
			Name:         med.Name,
			NameOriginal: med.Name,
			Type:         medType,
			Dosage:       TranslateText(med.Dosage, "te"),
			Frequency:    TranslateText(med.Frequency, "te"),
			Duration:     TranslateText(med.Duration, "te"),
			Instructions: TranslateText(med.Instructions, "te"),
			Warnings:     warnings,
		})
	}

	translatedRecs := make([]string, 0, len(recommendations))
	for _, r := range recommendations {
		translatedRecs = append(translatedRecs, TranslateText(r, "te"))
	}

	return TranslatedPrescription{
		Medications:              translatedMeds,
		LifestyleRecommendations: translatedRecs,
		FollowUpInstructions:     TranslateText(followUp, "te"),
		Language:                 "te",
		LanguageName:             "తెలుగు",
	}
}
