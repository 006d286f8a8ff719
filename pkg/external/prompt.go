package external

import (
	"fmt"
	"strings"

	"github.com/injury-triage-server/internal/domain"
)

var injuryCues = map[domain.InjuryType]string{
	domain.InjuryHeadFracture:      "head wound, skull injury, blood from head or face",
	domain.InjuryLegFracture:       "broken or deformed leg, exposed bone, leg trauma with blood",
	domain.InjuryArmFracture:       "broken or deformed arm, exposed bone, arm trauma with blood",
	domain.InjurySpineFracture:     "back or neck injury with blood, patient immobile",
	domain.InjuryChestBleeding:     "chest wound, stabbing, thoracic trauma with blood",
	domain.InjuryAbdominalBleeding: "abdominal wound, penetrating trauma with blood",
	domain.InjuryExternalBleeding:  "visible bleeding where the fracture site is unclear",
	domain.InjuryBurns:             "burn injuries, always bleeding=true with high severity",
	domain.InjuryCardiac:           "patient clutching chest, ECG visible, signs of cardiac arrest",
	domain.InjuryRespiratory:       "patient struggling to breathe, asthma, choking",
	domain.InjuryUnconscious:       "person down and unresponsive with no obvious external injury",
	domain.InjuryMinor:             "ambulatory patient with no visible serious injury",
	domain.InjuryUnknown:           "cannot be determined from the image",
}

var locations = []domain.InjuryLocation{
	domain.LocationHead, domain.LocationNeck, domain.LocationChest, domain.LocationAbdomen,
	domain.LocationArm, domain.LocationLeg, domain.LocationBack, domain.LocationMultiple,
	domain.LocationUnknown,
}

// ClassificationPrompt returns the instruction sent alongside every image.
// The category lists are generated from the domain vocabulary.
func ClassificationPrompt() string {
	var sb strings.Builder

	sb.WriteString("You are an emergency medical assistant helping paramedics classify injuries from a scene photograph.\n")
	sb.WriteString("Only classify the kind of emergency that is visible. Never identify the person and never read out personal details.\n\n")

	sb.WriteString("1. Decide whether ACTIVE BLEEDING is visible: blood, open wounds, lacerations, punctures, pooled blood, blood-soaked clothing.\n\n")

	sb.WriteString("2. Pick EXACTLY ONE injury_type.\n")
	sb.WriteString("   Bleeding categories (bleeding=true):\n")
	writeCategories(&sb, domain.BleedingInjuryTypes)
	sb.WriteString("   Non-bleeding categories (bleeding=false):\n")
	writeCategories(&sb, domain.NonBleedingInjuryTypes)
	sb.WriteString("\n")

	sb.WriteString("3. severity_level:\n")
	sb.WriteString("   5 = life-threatening (massive bleed, unconscious, no pulse signs)\n")
	sb.WriteString("   4 = serious (active bleed, major fracture, unresponsive but breathing)\n")
	sb.WriteString("   3 = moderate (visible injury, patient conscious and stable)\n")
	sb.WriteString("   2 = mild (walking wounded, minor injury)\n")
	sb.WriteString("   1 = minor (no visible injury, precautionary transport)\n")
	sb.WriteString("   Use 3 when it is completely unclear.\n\n")

	sb.WriteString("4. requires_icu is true when severity_level >= 4, when the head, spine or chest is injured, or when the patient is unconscious. Otherwise false.\n\n")

	sb.WriteString("5. confidence: \"high\" when the injury is clearly visible, \"medium\" for suggestive but inconclusive cues, \"low\" when the image is unclear.\n\n")

	names := make([]string, 0, len(locations))
	for _, l := range locations {
		names = append(names, string(l))
	}

	sb.WriteString("Respond with ONLY this JSON object, no markdown and no commentary:\n")
	fmt.Fprintf(&sb, `{"bleeding": <true|false>, "injury_type": "<category>", "injury_location": "<%s>", "severity_level": <1-5>, "requires_icu": <true|false>, "confidence": "<high|medium|low>"}`,
		strings.Join(names, "|"))
	sb.WriteString("\n")

	return sb.String()
}

func writeCategories(sb *strings.Builder, types []domain.InjuryType) {
	for _, t := range types {
		fmt.Fprintf(sb, "   - %q: %s\n", string(t), injuryCues[t])
	}
}
