package domain

import (
	"slices"
	"strings"
)

// Diagnosis categories
const (
	CategoryILD            = "Interstitial Lung Disease (ILD)"
	CategoryOAD            = "Obstructive Airway Disease (OAD)"
	CategoryBronchiectasis = "Bronchiectasis"
)

const (
	SubtypeCTDILD      = "CTD-ILD"
	SubtypeSarcoidosis = "Sarcoidosis"
)

var DiagnosisCategories = []string{CategoryILD, CategoryOAD, CategoryBronchiectasis}

var ILDSubtypes = []string{
	"Idiopathic pulmonary fibrosis",
	"Hypersensitivity pneumonitis",
	"Idiopathic NSIP",
	SubtypeCTDILD,
	"IPAF",
	SubtypeSarcoidosis,
	"Occupational ILD",
	"COP",
	"RB-ILD",
	"DIP",
	"AIP",
	"Idiopathic pleuro-parenchymal fibroelastosis",
	"LIP",
	"LCH",
	"LAM",
	"Eosinophilic pneumonia",
}

var OADSubtypes = []string{
	"COPD",
	"Asthma",
	"Asthma-COPD Overlap (ACO)",
	"Bronchiolitis Obliterans",
	"Other OAD",
}

var BronchiectasisSubtypes = []string{
	"Post-infectious",
	"Cystic Fibrosis related",
	"ABPA related",
	"Primary Ciliary Dyskinesia",
	"Idiopathic",
	"Other",
}

var CTDTypes = []string{
	"Scleroderma",
	"Rheumatoid arthiritis",
	"SLE",
	"Dermatomyositis",
	"Polymyosistis",
	"MCTD",
	"Others",
}

var SarcoidosisStages = []string{"Stage 1", "Stage 2", "Stage 3", "Stage 4"}

// OtherCoMorbidity is the co-morbidity entry that carries free text in Patient.OtherCoMorbidity.
const OtherCoMorbidity = "Others"

var CoMorbidities = []string{
	"Diabetes Mellitus",
	"Hypertension",
	"GERD",
	"Obstructive Sleep Apnea",
	"Coronary Artery Disease",
	"Pulmonary Hypertension",
	"Hypothyroidism",
	"Osteoporosis",
	"Depression",
	"Anxiety",
	"Chronic Kidney Disease (CKD)",
	"Chronic Liver Disease (CLD)",
	"Past history of Pulmonary TB",
	"Hepatitis B",
	"Hepatitis C",
	"HIV",
	OtherCoMorbidity,
}

// Medications offered by name; anything else is stored upper-cased as typed.
var MedicationCatalog = []string{
	"Wysolone",
	"MMF",
	"Azathoprine",
	"Methotrexate",
	"Rituximab",
	"Nintedanib",
	"Perfinedone",
	"Bronchodilator",
	"IVIG",
}

var Frequencies = []string{
	"OD",
	"BD",
	"TDS",
	"Once a week",
	"Once a month",
	"Induction first dose",
	"Induction 2nd dose",
	"Maintenance dose",
}

var complexFrequencies = map[string]bool{
	"Induction first dose": true,
	"Induction 2nd dose":   true,
	"Maintenance dose":     true,
}

// IsComplexFrequency reports whether a frequency code carries a dose number and dosage date.
func IsComplexFrequency(freq string) bool {
	return complexFrequencies[freq]
}

const MaxDoseNumber = 20

// MMRCGrade is one selectable grade with bilingual wording.
type MMRCGrade struct {
	Value string `json:"value"`
	En    string `json:"en"`
	Hi    string `json:"hi"`
}

var MMRCGrades = []MMRCGrade{
	{Value: "0", En: "Grade 0: I only get breathless with strenuous exercise.", Hi: "ग्रेड 0: मुझे केवल ज़ोरदार व्यायाम करने पर ही सांस फूलती है।"},
	{Value: "1", En: "Grade 1: I get short of breath when hurrying on the level or walking up a slight hill.", Hi: "ग्रेड 1: समतल पर जल्दी चलने या हल्की चढ़ाई चढ़ने पर मेरी सांस फूलती है।"},
	{Value: "2", En: "Grade 2: I walk slower than people of the same age on the level because of breathlessness, or I have to stop for breath when walking on my own pace on the level.", Hi: "ग्रेड 2: सांस फूलने के कारण मैं समतल पर अपनी उम्र के लोगों से धीमे चलता हूँ, या अपने आप चलते समय मुझे सांस लेने के लिए रुकता हूँ।"},
	{Value: "3", En: "Grade 3: I stop for breath after walking about 100 meters or after a few minutes on the level.", Hi: "ग्रेड 3: मैं लगभग 100 मीटर चलने के बाद या कुछ मिनटों के बाद सांस लेने के लिए रुकता हूँ।"},
	{Value: "4", En: "Grade 4: I am too breathless to leave the house or I am breathless when dressing or undressing.", Hi: "ग्रेड 4: मेरी सांस इतनी फूलती है कि मैं घर से बाहर नहीं निकल सकता या कपड़े पहनते/उतारते समय भी सांस फूलती है।"},
}

var SideEffects = []string{
	"Nausea (जी मिचलाना)",
	"Vomiting (उल्टी)",
	"Diarrhea (दस्त)",
	"Fever (बुखार)",
	"Headache (सिरदर्द)",
	"Abdominal Pain (पेट दर्द)",
	"Rashes (चकत्ते)",
}

// VAS symptom keys, in export column order.
const (
	SymptomCough          = "cough"
	SymptomExpectoration  = "expectoration"
	SymptomBreathlessness = "breathlessness"
	SymptomChestPain      = "chest_pain"
	SymptomHemoptysis     = "hemoptysis"
	SymptomFever          = "fever"
	SymptomCTD            = "ctd_symptoms"
)

var SymptomKeys = []string{
	SymptomCough,
	SymptomExpectoration,
	SymptomBreathlessness,
	SymptomChestPain,
	SymptomHemoptysis,
	SymptomFever,
	SymptomCTD,
}

var SymptomsHindi = map[string]string{
	SymptomCough:          "खांसी",
	SymptomExpectoration:  "बलगम",
	SymptomBreathlessness: "सांस फूलना",
	SymptomChestPain:      "छाती में दर्द",
	SymptomHemoptysis:     "खून की उल्टी / बलगम में खून",
	SymptomFever:          "बुखार",
	SymptomCTD:            "सीटीडी लक्षण",
}

// SubtypesFor returns the subtype list of a category, nil for an unknown category.
func SubtypesFor(category string) []string {
	switch category {
	case CategoryILD:
		return ILDSubtypes
	case CategoryOAD:
		return OADSubtypes
	case CategoryBronchiectasis:
		return BronchiectasisSubtypes
	}
	return nil
}

// NormalizeCategory maps short codes (ILD, OAD, Bronchiectasis) and full names to the
// canonical category name.
func NormalizeCategory(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ILD", strings.ToUpper(CategoryILD):
		return CategoryILD, true
	case "OAD", strings.ToUpper(CategoryOAD):
		return CategoryOAD, true
	case "BRONCHIECTASIS":
		return CategoryBronchiectasis, true
	}
	return "", false
}

// CategoryCode is the short code used in export filenames.
func CategoryCode(category string) string {
	switch category {
	case CategoryILD:
		return "ILD"
	case CategoryOAD:
		return "OAD"
	case CategoryBronchiectasis:
		return "Bronchiectasis"
	}
	return ""
}

// InferCategory finds the category owning a subtype. Shared names ("Idiopathic") resolve
// to the first category listing them.
func InferCategory(subtype string) (string, bool) {
	for _, c := range DiagnosisCategories {
		if slices.Contains(SubtypesFor(c), subtype) {
			return c, true
		}
	}
	return "", false
}
