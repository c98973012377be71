// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestLabelSection(t *testing.T) {
	tests := []struct {
		heading string
		want    string
	}{
		{"1. Introduction", types.SectionIntroduction},
		{"II. RELATED WORK", types.SectionBackground},
		{"Background", types.SectionBackground},
		{"Materials and Methods", types.SectionMethods},
		{"3.2 Experimental Setup", types.SectionMethods},
		{"Results and Discussion", types.SectionResults},
		{"Performance Evaluation", types.SectionResults},
		{"4. Experimental Results", types.SectionResults},
		{"Experimental Evaluation", types.SectionResults},
		{"V. EXPERIMENTAL RESULTS AND ANALYSIS", types.SectionResults},
		{"Experiments", types.SectionResults},
		{"2. Experimental Section", types.SectionMethods},
		{"Experimental Procedure", types.SectionMethods},
		{"Discussion", types.SectionDiscussion},
		{"Limitations", types.SectionLimitations},
		{"Open Challenges", types.SectionLimitations},
		{"Conclusion", types.SectionConclusion},
		{"Conclusions and Future Work", types.SectionFutureWork},
		{"Outlook", types.SectionFutureWork},
		{"Abstract", types.SectionAbstract},
		{"References", types.SectionReferences},
		{"Acknowledgements", types.SectionAcknowledgments},
		{"Microrobot Locomotion", types.SectionBody},
		{"", types.SectionBody},
		{"4.", types.SectionBody},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, LabelSection(tt.heading))
		})
	}
}
