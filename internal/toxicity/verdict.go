package toxicity

// Categories lists the classifier score names in the order they appear in a
// verdict's tags.
var Categories = []string{
	"toxicity",
	"severe_toxicity",
	"obscene",
	"identity_attack",
	"insult",
	"threat",
	"sexual_explicit",
}

// Scores holds one [0,1] probability per category.
type Scores struct {
	Toxicity       float64 `json:"toxicity"`
	SevereToxicity float64 `json:"severe_toxicity"`
	Obscene        float64 `json:"obscene"`
	IdentityAttack float64 `json:"identity_attack"`
	Insult         float64 `json:"insult"`
	Threat         float64 `json:"threat"`
	SexualExplicit float64 `json:"sexual_explicit"`
}

func (s Scores) values() []float64 {
	return []float64{
		s.Toxicity,
		s.SevereToxicity,
		s.Obscene,
		s.IdentityAttack,
		s.Insult,
		s.Threat,
		s.SexualExplicit,
	}
}

// Verdict is the outcome of classifying one text. IsToxic is true exactly
// when Tags is non-empty.
type Verdict struct {
	IsToxic bool     `json:"is_toxic"`
	Tags    []string `json:"tags"`
}

// Evaluate tags every category whose score strictly exceeds threshold.
func Evaluate(scores Scores, threshold float64) Verdict {
	tags := []string{}
	for i, v := range scores.values() {
		if v > threshold {
			tags = append(tags, Categories[i])
		}
	}
	return Verdict{IsToxic: len(tags) > 0, Tags: tags}
}
