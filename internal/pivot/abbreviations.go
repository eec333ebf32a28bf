package pivot

// BuiltinAbbreviations shortens the test names used by the biochemistry lab
// export to the column headers its reports use.
var BuiltinAbbreviations = map[string]string{
	"Electrolytes - Serum Bi-carbonate":                     "B.CARB",
	"Electrolytes - Serum Chloride":                         "CHLORIDE",
	"Electrolytes - Serum Potassium":                        "POTASSIUM",
	"Electrolytes - Serum Sodium":                           "SODIUM",
	"FBS - Fasting Blood Sugar":                             "FBS",
	"Free T3, T4 & TSH - (F-T3) FREE TRIIODOTHYRONINE":      "FT3",
	"Free T3, T4 & TSH - (F-T4) FREE THYROXINE":             "FT4",
	"Free T3, T4 & TSH - (TSH)THYROID STIMULATING":          "TSH",
	"Glyco HB (HBA1C) - Glyco Hb (HBA1C)":                   "HBA1C",
	"Lipid Profile - Cholesterol (Total)":                   "T.CHOL",
	"Lipid Profile - HDL Cholesterol (Direct)":              "HDL",
	"Lipid Profile - LDL Cholesterol (Direct)":              "LDL",
	"Lipid Profile - Total Cholesterol /HDL Ratio":          "TCHOLDRATIO",
	"Lipid Profile - Triglycerides":                         "TGL",
	"Lipid Profile - VLDL Cholesterol":                      "VLDL",
	"Liver Function Test - ALKP":                            "ALKP",
	"Liver Function Test - ALTV":                            "ALTV",
	"Liver Function Test - AST":                             "AST",
	"Liver Function Test - Albumin":                         "ALB",
	"Liver Function Test - Direct Bilirubin":                "D.BIL",
	"Liver Function Test - Gamma-glutamy Transferase (GGT)": "GGT",
	"Liver Function Test - Total Bilirubin":                 "T.BIL",
	"Liver Function Test - Total Protein":                   "T.PRO",
	"PPBS - Post Prandial Blood Sugar":                      "PPBS",
	"RBS - Random Blood Sugar":                              "RBS",
	"RENAL FUNCTION TEST (RFT) - Creatinine":                "CREA",
	"RENAL FUNCTION TEST (RFT) - Urea":                      "UREA",
	"RENAL FUNCTION TEST (RFT) - Uric acid":                 "U.ACID",
	"Serum Calcium - Serum Calcium":                         "CALCIUM",
}

// Renames builds the HeaderRenames for Options. Entries in overrides win
// over the built-in table.
func Renames(builtin bool, overrides map[string]string) map[string]string {
	out := make(map[string]string, len(overrides))
	if builtin {
		for k, v := range BuiltinAbbreviations {
			out[k] = v
		}
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
