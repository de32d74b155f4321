package spoonacular

import (
	"encoding/json"
	"fmt"
)

type Timeframe string

const (
	Day  Timeframe = "day"
	Week Timeframe = "week"
)

// Weekdays is the order the provider keys a weekly plan by.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case "", Week:
		return Week, nil
	case Day:
		return Day, nil
	default:
		return "", fmt.Errorf("unsupported timeframe %q", s)
	}
}

// Meal is one entry of a generated plan.
type Meal struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	ImageType      string `json:"imageType"`
	ReadyInMinutes Number `json:"readyInMinutes"`
	Servings       Number `json:"servings"`
	SourceURL      string `json:"sourceUrl"`
}

func (m Meal) ImageURL() string {
	return fmt.Sprintf("https://spoonacular.com/recipeImages/%d-480x360.%s", m.ID, m.ImageType)
}

// Summary converts a plan meal into the record the recipe catalog stores.
func (m Meal) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          m.ID,
		Title:       m.Title,
		ImageURL:    m.ImageURL(),
		PrepMinutes: m.ReadyInMinutes.Int(),
	}
}

type DayNutrients struct {
	Calories      Number `json:"calories"`
	Protein       Number `json:"protein"`
	Fat           Number `json:"fat"`
	Carbohydrates Number `json:"carbohydrates"`
}

type PlanDay struct {
	Name      string       `json:"day"`
	Meals     []Meal       `json:"meals"`
	Nutrients DayNutrients `json:"nutrients"`
}

// Plan is the normalized provider plan: seven days for a week, one for a day.
type Plan struct {
	Timeframe Timeframe `json:"timeframe"`
	Days      []PlanDay `json:"days"`
}

type dayPayload struct {
	Meals     []Meal       `json:"meals"`
	Nutrients DayNutrients `json:"nutrients"`
}

type planPayload struct {
	Week map[string]dayPayload `json:"week"`
	dayPayload
}

func (p planPayload) normalize(tf Timeframe) *Plan {
	plan := &Plan{Timeframe: tf}
	if tf == Week || p.Week != nil {
		plan.Timeframe = Week
		for _, name := range Weekdays {
			d := p.Week[name]
			meals := d.Meals
			if meals == nil {
				meals = []Meal{}
			}
			plan.Days = append(plan.Days, PlanDay{Name: name, Meals: meals, Nutrients: d.Nutrients})
		}
		return plan
	}

	meals := p.Meals
	if meals == nil {
		meals = []Meal{}
	}
	plan.Days = []PlanDay{{Name: string(Day), Meals: meals, Nutrients: p.Nutrients}}
	return plan
}

// Nutrition is the per-recipe macro breakdown.
type Nutrition struct {
	Calories Number `json:"calories"`
	Protein  Number `json:"protein"`
	Fat      Number `json:"fat"`
	Carbs    Number `json:"carbs"`
}

func (n *Nutrition) UnmarshalJSON(data []byte) error {
	var raw struct {
		Calories      Number  `json:"calories"`
		Protein       Number  `json:"protein"`
		Fat           Number  `json:"fat"`
		Carbs         *Number `json:"carbs"`
		Carbohydrates *Number `json:"carbohydrates"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Calories = raw.Calories
	n.Protein = raw.Protein
	n.Fat = raw.Fat
	switch {
	case raw.Carbs != nil:
		n.Carbs = *raw.Carbs
	case raw.Carbohydrates != nil:
		n.Carbs = *raw.Carbohydrates
	default:
		n.Carbs = 0
	}
	return nil
}

type RecipeDetails struct {
	Instructions string   `json:"instructions"`
	Ingredients  []string `json:"ingredients"`
}

type detailsPayload struct {
	Instructions        *string `json:"instructions"`
	ExtendedIngredients []struct {
		Original string `json:"original"`
	} `json:"extendedIngredients"`
}

// RecipeSummary is the normalized external recipe record the catalog upserts.
type RecipeSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ImageURL    string `json:"image_url"`
	PrepMinutes int    `json:"prep_minutes"`
	CookMinutes int    `json:"cook_minutes"`
}

type SearchQuery struct {
	Number      int
	Type        string
	MinCalories int
	MaxCalories int
	Sort        string
}

// DefaultCatalogQuery mirrors the catalog seed request of the web client.
var DefaultCatalogQuery = SearchQuery{
	Number:      21,
	Type:        "main course, breakfast, snack",
	MinCalories: 200,
	MaxCalories: 1000,
	Sort:        "random",
}

type searchPayload struct {
	Results []struct {
		ID                 int64  `json:"id"`
		Title              string `json:"title"`
		Image              string `json:"image"`
		PreparationMinutes Number `json:"preparationMinutes"`
		CookingMinutes     Number `json:"cookingMinutes"`
	} `json:"results"`
}
