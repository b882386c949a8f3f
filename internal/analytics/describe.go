package analytics

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"churnlens/pkg/contracts/domain"
)

// describeColumns are the numeric columns summarised by Describe
var describeColumns = []string{
	"CreditScore", "Age", "Tenure", "Balance", "NumOfProducts",
	"HasCrCard", "IsActiveMember", "EstimatedSalary", "Exited",
}

// Frame converts records into a gota DataFrame of the numeric columns
func Frame(records []domain.CustomerRecord) dataframe.DataFrame {
	cols := make([][]float64, len(describeColumns))
	for i := range cols {
		cols[i] = make([]float64, len(records))
	}
	for i, r := range records {
		cols[0][i] = float64(r.CreditScore)
		cols[1][i] = float64(r.Age)
		cols[2][i] = float64(r.Tenure)
		cols[3][i] = r.Balance
		cols[4][i] = float64(r.NumProducts)
		cols[5][i] = flag(r.HasCreditCard)
		cols[6][i] = flag(r.IsActive)
		cols[7][i] = r.EstimatedSalary
		cols[8][i] = flag(r.HasChurned)
	}

	ss := make([]series.Series, len(describeColumns))
	for i, name := range describeColumns {
		ss[i] = series.New(cols[i], series.Float, name)
	}
	return dataframe.New(ss...)
}

// Describe returns count, mean, std, min, quartiles and max for each numeric column
func Describe(records []domain.CustomerRecord) domain.DatasetDescription {
	desc := domain.DatasetDescription{Rows: len(records)}
	if len(records) == 0 {
		return desc
	}

	df := Frame(records)
	desc.Rows = df.Nrow()
	for _, name := range describeColumns {
		col := df.Col(name)
		sorted := col.Subset(col.Order(false)).Float()
		for _, missing := range col.IsNaN() {
			if missing {
				desc.MissingValues++
			}
		}
		desc.Columns = append(desc.Columns, domain.ColumnStatistics{
			Column: name,
			Count:  col.Len(),
			Mean:   col.Mean(),
			StdDev: finite(col.StdDev()),
			Min:    col.Min(),
			P25:    quantile(sorted, 0.25),
			Median: quantile(sorted, 0.5),
			P75:    quantile(sorted, 0.75),
			Max:    col.Max(),
		})
	}
	return desc
}

// quantile interpolates linearly between the two nearest ranks of sorted,
// matching pandas' default
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= len(sorted) {
		return sorted[i]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

// finite maps NaN (std of a single value) to 0 so the result stays JSON-encodable
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
