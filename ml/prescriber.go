package ml

import (
	"fmt"
	"strings"

	"github.com/acneai/backend/model"
)

// TreatmentPlan is the rule engine's output for one diagnosis.
type TreatmentPlan struct {
	Medications              []model.Medication
	LifestyleRecommendations []string
	FollowUpInstructions     string
	Reasoning                string
	EvidenceReferences       []string
}

// severityGuidelines is one severity row of the treatment table.
type severityGuidelines struct {
	topical   []model.Medication
	oral      []model.Medication
	lifestyle []string
}

// treatmentDB maps severity to standard treatment guidelines. Sourced from
// the AAD acne guidelines; concentrations are part of the medication name.
var treatmentDB = map[string]severityGuidelines{
	SeverityClear: {
		topical: []model.Medication{
			{
				Name:         "Gentle cleanser",
				Dosage:       "As directed",
				Frequency:    "Daily",
				Duration:     "Ongoing",
				Instructions: "Apply as directed.",
			},
			{
				Name:         "Non-comedogenic moisturizer",
				Dosage:       "As directed",
				Frequency:    "Daily",
				Duration:     "Ongoing",
				Instructions: "Apply as directed.",
			},
		},
		lifestyle: []string{
			"Maintain skincare routine",
			"Use sunscreen daily",
		},
	},
	SeverityMild: {
		topical: []model.Medication{
			{
				Name:         "Benzoyl Peroxide 2.5%",
				Dosage:       "Apply thin layer",
				Frequency:    "Once daily at night",
				Duration:     "8 weeks",
				Instructions: "Start every other day, increase to daily.",
				Warnings:     []string{"May bleach fabrics"},
			},
			{
				Name:         "Salicylic Acid 2%",
				Dosage:       "Apply to affected areas",
				Frequency:    "Twice daily",
				Duration:     "8 weeks",
				Instructions: "Use as cleanser or leave-on.",
				Warnings:     []string{"May cause dryness"},
			},
		},
		lifestyle: []string{
			"Gentle cleansing twice daily",
			"Avoid touching face",
			"Use non-comedogenic products",
		},
	},
	SeverityModerate: {
		topical: []model.Medication{
			{
				Name:         "Benzoyl Peroxide 5%",
				Dosage:       "Apply thin layer",
				Frequency:    "Once daily at night",
				Duration:     "12 weeks",
				Instructions: "Apply to affected areas after cleansing.",
				Warnings:     []string{"May bleach fabrics", "Avoid eye area"},
			},
			{
				Name:         "Adapalene 0.1%",
				Dosage:       "Apply pea-sized amount",
				Frequency:    "Once daily at night",
				Duration:     "12 weeks",
				Instructions: "Apply 20 min after washing. Expect initial worsening.",
				Warnings:     []string{"Avoid sun exposure", "Not for pregnancy"},
			},
		},
		lifestyle: []string{
			"Gentle cleansing twice daily",
			"Oil-free products",
			"Change pillowcases frequently",
			"Reduce dairy intake",
		},
	},
	SeveritySevere: {
		topical: []model.Medication{
			{
				Name:         "Benzoyl Peroxide 5%",
				Dosage:       "Apply thin layer",
				Frequency:    "Once daily",
				Duration:     "12 weeks",
				Instructions: "Apply after cleansing.",
				Warnings:     []string{"May bleach fabrics"},
			},
			{
				Name:         "Clindamycin 1%",
				Dosage:       "Apply thin layer",
				Frequency:    "Twice daily",
				Duration:     "8 weeks",
				Instructions: "Use with benzoyl peroxide.",
				Warnings:     []string{"Do not use alone long-term"},
			},
		},
		oral: []model.Medication{
			{
				Name:         "Doxycycline 100mg",
				Dosage:       "100mg",
				Frequency:    "Twice daily",
				Duration:     "3 months",
				Instructions: "Take with food and water.",
				Warnings:     []string{"Avoid sun", "Not for pregnancy"},
			},
		},
		lifestyle: []string{
			"Dermatologist follow-up recommended",
			"Sun protection critical",
			"Monitor for side effects",
		},
	},
	SeverityVerySevere: {
		topical: []model.Medication{
			{
				Name:         "Benzoyl Peroxide 5%",
				Dosage:       "Apply thin layer",
				Frequency:    "Once daily",
				Duration:     "Ongoing",
				Instructions: "Supportive therapy.",
				Warnings:     []string{"May bleach fabrics"},
			},
		},
		oral: []model.Medication{
			{
				Name:         "Isotretinoin (Accutane)",
				Dosage:       "As prescribed by specialist",
				Frequency:    "Once daily",
				Duration:     "4-6 months",
				Instructions: "REQUIRES SPECIALIST. Monthly monitoring.",
				Warnings: []string{
					"Severe birth defects",
					"Liver monitoring required",
					"Depression risk",
				},
			},
		},
		lifestyle: []string{
			"MANDATORY dermatologist care",
			"Monthly blood tests",
			"Pregnancy prevention required",
			"No waxing or laser",
		},
	},
}

var followUpBySeverity = map[string]string{
	SeverityClear:      "Annual skin check. Return if new lesions appear.",
	SeverityMild:       "Follow up in 8-12 weeks to assess response.",
	SeverityModerate:   "Follow up in 6-8 weeks. Contact if severe irritation.",
	SeveritySevere:     "Follow up in 4 weeks. Blood work may be needed.",
	SeverityVerySevere: "Close monitoring required. Follow up in 2 weeks.",
}

var evidenceReferences = []string{
	"AAD Acne Guidelines 2024",
	"Global Alliance to Improve Outcomes in Acne",
}

// GeneratePlan produces a treatment plan from the classified severity, the
// estimated lesion counts, and the patient's clinical metadata. Medications
// the patient is allergic to are excluded. An unknown severity falls back to
// the mild guidelines. additionalNotes is accepted for the request surface
// and does not alter the rule table.
func GeneratePlan(severity string, lesions model.LesionCounts, meta model.ClinicalMetadata, additionalNotes string) TreatmentPlan {
	guidelines, ok := treatmentDB[severity]
	if !ok {
		guidelines = treatmentDB[SeverityMild]
	}

	medications := make([]model.Medication, 0, len(guidelines.topical)+len(guidelines.oral))
	for _, med := range guidelines.topical {
		if allergicTo(med.Name, meta.Allergies) {
			continue
		}
		med.Type = "topical"
		medications = append(medications, med)
	}
	for _, med := range guidelines.oral {
		if allergicTo(med.Name, meta.Allergies) {
			continue
		}
		med.Type = "oral"
		medications = append(medications, med)
	}

	total := lesions.Total()
	reasoning := fmt.Sprintf("Based on %s acne severity with %d total lesions. Treatment includes %d medication(s) following standard guidelines.",
		strings.ToUpper(severity), total, len(medications))
	if len(meta.PreviousTreatments) > 0 {
		reasoning += fmt.Sprintf(" Previous treatments noted: %s.", strings.Join(meta.PreviousTreatments, ", "))
	}

	followUp, ok := followUpBySeverity[severity]
	if !ok {
		followUp = "Follow up in 8 weeks."
	}

	return TreatmentPlan{
		Medications:              medications,
		LifestyleRecommendations: guidelines.lifestyle,
		FollowUpInstructions:     followUp,
		Reasoning:                reasoning,
		EvidenceReferences:       evidenceReferences,
	}
}

// allergicTo reports whether any allergy appears as a case-insensitive
// substring of the medication name.
func allergicTo(name string, allergies []string) bool {
	lower := strings.ToLower(name)
	for _, a := range allergies {
		if strings.Contains(lower, strings.ToLower(a)) {
			return true
		}
	}
	return false
}
