/*
Package plans defines the pricing catalog and plan switching.
*/
package plans

import (
	"context"

	"lexdraft/internal/app/session"
	"lexdraft/internal/app/user"
	"lexdraft/internal/pkg/errs"
)

// Plan is one pricing tier.
type Plan struct {
	Name        string   `json:"name"`
	PriceUSD    int      `json:"priceUsd"`
	Tokens      int      `json:"tokens"`
	Features    []string `json:"features"`
	Highlighted bool     `json:"highlighted"`
}

// Catalog returns the pricing tiers in display order.
func Catalog() []Plan {
	return []Plan{
		{
			Name:     "Free",
			PriceUSD: 0,
			Tokens:   2,
			Features: []string{
				"2 document generations",
				"All document types",
				"AI legal assistant",
			},
		},
		{
			Name:     "Professional",
			PriceUSD: 29,
			Tokens:   20,
			Features: []string{
				"20 document generations per month",
				"All document types",
				"AI legal assistant",
				"Priority support",
			},
			Highlighted: true,
		},
		{
			Name:     "Enterprise",
			PriceUSD: 49,
			Tokens:   999,
			Features: []string{
				"Unlimited document generations",
				"All document types",
				"AI legal assistant",
				"Priority support",
				"Custom templates",
			},
		},
	}
}

// ByName returns the plan with the given name.
func ByName(name string) (Plan, bool) {
	for _, p := range Catalog() {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}

// Select switches the session's user to the named plan and resets their token
// balance to the plan's allotment. Payment is out of scope; the switch is
// immediate.
func Select(ctx context.Context, mgr *session.Manager, planName string) error {
	u := mgr.CurrentUser()
	if u == nil {
		return errs.NewError(errs.ErrUnauthorized)
	}

	plan, ok := ByName(planName)
	if !ok {
		return errs.NewError(errs.ErrPlanUnknown)
	}

	if u.PlanNameOrDefault() == plan.Name {
		return errs.NewError(errs.ErrPlanAlreadyCurrent)
	}

	return mgr.UpdateUser(ctx, user.MetadataPatch{
		PlanName: user.String(plan.Name),
		Tokens:   user.Int(plan.Tokens),
	})
}
