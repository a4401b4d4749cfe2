package matching

// PatientRecord is the raw clinical input to the encoder. Optional numeric
// fields are pointers and optional categorical fields use "" for unknown, so
// callers can still tell "missing" apart from a defaulted value. Defaults are
// applied only inside Encode.
type PatientRecord struct {
	UserType              string // patient, caregiver
	MgmtStatus            string // methylated, unmethylated
	IdhStatus             string // mutant, wildtype
	AgeAtDiagnosis        *int
	KarnofskyScore        *int
	CurrentTreatmentPhase string
	TimeSinceDiagnosis    string
}

// FeatureVector is the fixed-order encoding of a PatientRecord. Every
// component is finite and non-negative; the component order returned by
// Values is shared by all vectors so positional comparison is valid.
type FeatureVector struct {
	MgmtStatus         float64
	IdhStatus          float64
	AgeBracket         float64
	KpsScore           float64
	TreatmentPhase     float64
	TimeSinceDiagnosis float64
	UserType           float64
}

const NumFeatures = 7

var FeatureNames = [NumFeatures]string{
	"mgmt_status",
	"idh_status",
	"age_bracket",
	"kps_score",
	"treatment_phase",
	"time_since_diagnosis",
	"user_type",
}

// TreatmentPhases is the fixed ordered list a phase string is looked up in.
// Lookup is a case-sensitive exact match; anything else encodes to 0.
var TreatmentPhases = []string{
	"pre_treatment",
	"initial_surgery",
	"concurrent_chemoradiation",
	"adjuvant_chemotherapy",
	"maintenance",
	"recurrence",
	"clinical_trial",
	"palliative",
}

func (v FeatureVector) Values() [NumFeatures]float64 {
	return [NumFeatures]float64{
		v.MgmtStatus,
		v.IdhStatus,
		v.AgeBracket,
		v.KpsScore,
		v.TreatmentPhase,
		v.TimeSinceDiagnosis,
		v.UserType,
	}
}

// Encode maps a patient record to its feature vector. It is pure, total and
// deterministic: unknown, absent or unrecognized inputs encode to the
// documented default for that feature, never an error.
func Encode(record PatientRecord) FeatureVector {
	return FeatureVector{
		MgmtStatus:         encodeMgmt(record.MgmtStatus),
		IdhStatus:          encodeIdh(record.IdhStatus),
		AgeBracket:         encodeAgeBracket(record.AgeAtDiagnosis),
		KpsScore:           normalizeKps(record.KarnofskyScore),
		TreatmentPhase:     encodeTreatmentPhase(record.CurrentTreatmentPhase),
		TimeSinceDiagnosis: encodeTimeSinceDiagnosis(record.TimeSinceDiagnosis),
		UserType:           encodeUserType(record.UserType),
	}
}

func encodeMgmt(status string) float64 {
	switch status {
	case "methylated":
		return 2
	case "unmethylated":
		return 1
	default:
		return 0
	}
}

func encodeIdh(status string) float64 {
	switch status {
	case "mutant":
		return 2
	case "wildtype":
		return 1
	default:
		return 0
	}
}

// maxPlausibleAge guards against garbage input; anything outside (0, 120]
// is treated as unknown rather than propagated.
const maxPlausibleAge = 120

func encodeAgeBracket(age *int) float64 {
	if age == nil || *age <= 0 || *age > maxPlausibleAge {
		return 0
	}
	switch {
	case *age < 40:
		return 1
	case *age < 55:
		return 2
	case *age < 70:
		return 3
	default:
		return 4
	}
}

// normalizeKps maps a 0-100 Karnofsky score to [0,1]. A missing or
// out-of-range score is a neutral 0.5 so unknown is not scored as "worst".
func normalizeKps(score *int) float64 {
	if score == nil || *score <= 0 || *score > 100 {
		return 0.5
	}
	return float64(*score) / 100
}

func encodeTreatmentPhase(phase string) float64 {
	if phase == "" {
		return 0
	}
	for i, p := range TreatmentPhases {
		if p == phase {
			return float64(i+1) / float64(len(TreatmentPhases))
		}
	}
	return 0
}

func encodeTimeSinceDiagnosis(t string) float64 {
	switch t {
	case "newly_diagnosed":
		return 0.1
	case "1_month":
		return 0.2
	case "3_months":
		return 0.4
	case "6_months":
		return 0.6
	case "1_year_plus":
		return 1.0
	default:
		return 0
	}
}

func encodeUserType(userType string) float64 {
	if userType == "caregiver" {
		return 1
	}
	return 0
}

// SharedAttributes lists the feature names on which two vectors agree with a
// known (non-default) value, for the match summary shown to users.
func SharedAttributes(u, v FeatureVector) []string {
	uv := u.Values()
	vv := v.Values()
	var shared []string
	for i := 0; i < NumFeatures; i++ {
		if i == kpsIndex || i == userTypeIndex {
			// KPS is continuous and user type defaults to a valid value;
			// neither makes a meaningful "shared attribute" callout.
			continue
		}
		if uv[i] != 0 && uv[i] == vv[i] {
			shared = append(shared, FeatureNames[i])
		}
	}
	return shared
}

const (
	kpsIndex      = 3
	userTypeIndex = 6
)
