package nutrition

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    Target
	}{
		{
			name:    "male maintain",
			profile: Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "maintain"},
			want:    Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66},
		},
		{
			name:    "male lose recomputes macros from reduced calories",
			profile: Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "lose"},
			want:    Target{Calories: 1479, Protein: 111, Carbs: 148, Fats: 49},
		},
		{
			name:    "female gain",
			profile: Profile{Weight: 60, Height: 165, Age: 25, Gender: "female", Goal: "gain"},
			want:    Target{Calories: 2114, Protein: 159, Carbs: 211, Fats: 70},
		},
		{
			name:    "unknown goal is treated as maintain",
			profile: Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "bulk"},
			want:    Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66},
		},
		{
			name:    "goal match is case sensitive",
			profile: Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "LOSE"},
			want:    Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalculateInvalidGender(t *testing.T) {
	for _, gender := range []string{"other", "Male", "MALE", "Female", " male"} {
		t.Run(gender, func(t *testing.T) {
			_, err := Calculate(Profile{Weight: 70, Height: 175, Age: 30, Gender: gender, Goal: "lose"})
			assert.ErrorIs(t, err, ErrInvalidGender)
		})
	}
}

func TestTargetJSONKeys(t *testing.T) {
	data, err := json.Marshal(Target{Calories: 1979, Protein: 148, Carbs: 198, Fats: 66})
	require.NoError(t, err)
	assert.JSONEq(t, `{"calories":1979,"proteinGrams":148,"carbsGrams":198,"fatsGrams":66}`, string(data))
}

func TestCalculateMatchesFormula(t *testing.T) {
	for _, gender := range []string{"male", "female"} {
		for _, goal := range []string{"lose", "maintain", "gain"} {
			for weight := 45.0; weight <= 120; weight += 15 {
				p := Profile{Weight: weight, Height: 170, Age: 40, Gender: gender, Goal: goal}
				bmr, err := BMR(p)
				require.NoError(t, err)

				offset := 0.0
				switch goal {
				case "lose":
					offset = -500
				case "gain":
					offset = 500
				}
				want := int(math.Round(1.2*bmr + offset))

				got, err := Calculate(p)
				require.NoError(t, err)
				assert.Equal(t, want, got.Calories)
				assert.Equal(t, int(math.Round(float64(want)*0.3/4)), got.Protein)
				assert.Equal(t, int(math.Round(float64(want)*0.4/4)), got.Carbs)
				assert.Equal(t, int(math.Round(float64(want)*0.3/9)), got.Fats)
			}
		}
	}
}

func TestProfileValidate(t *testing.T) {
	assert.NoError(t, Profile{Weight: 70, Height: 175, Age: 30, Gender: "male", Goal: "lose"}.Validate())

	err := Profile{Weight: 70, Gender: "male"}.Validate()
	require.ErrorIs(t, err, ErrIncompleteProfile)
	assert.Contains(t, err.Error(), "height, age, goal")
}
