package planner

import (
	"fmt"
	"time"
)

// Request asks for a weekly plan with the given number of meals per type.
// WeekOf, when set, is only used for day labeling; the zero value means the
// Monday of the current week.
type Request struct {
	Breakfasts int       `json:"breakfasts"`
	Lunches    int       `json:"lunches"`
	Dinners    int       `json:"dinners"`
	WeekOf     time.Time `json:"week_of,omitempty"`
}

// Validate rejects negative meal counts.
func (r Request) Validate() error {
	if r.Breakfasts < 0 || r.Lunches < 0 || r.Dinners < 0 {
		return fmt.Errorf("meal counts must be non-negative: breakfasts=%d lunches=%d dinners=%d",
			r.Breakfasts, r.Lunches, r.Dinners)
	}
	return nil
}

// TotalMeals is the number of slots the plan will fill.
func (r Request) TotalMeals() int {
	return r.Breakfasts + r.Lunches + r.Dinners
}
