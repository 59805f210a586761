package analysis

import (
	"context"

	"dayahead-procurement/internal/model"
)

// Forecaster is the contract for external forecasting engines (Holt-Winters,
// gradient boosting, random forest in the upstream toolkit). The engines
// themselves live outside this repository; everything here only needs to be
// able to ask one for a projected series.
type Forecaster interface {
	// Forecast projects the series `horizon` samples past its last point,
	// at the series' own cadence.
	Forecast(ctx context.Context, s model.Series, horizon int) (model.Series, error)
}
