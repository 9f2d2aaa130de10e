// Package model fits logistic regressions of loan denial on the filtered
// dataset.  Fitting is iteratively reweighted least squares; standard errors
// come from the inverse information matrix and p-values from the unit normal.
package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/invertedv/hmda/raw"
)

var (
	// ErrNoData means no records were eligible for the fit.
	ErrNoData = errors.New("no records to fit")

	// ErrNoConverge means IRLS did not settle within the iteration cap.
	ErrNoConverge = errors.New("fit did not converge")
)

const (
	maxIter = 50
	tol     = 1e-8

	// weights are floored to keep the working response finite when fitted
	// probabilities saturate
	minWeight = 1e-10

	// a coefficient this large means the likelihood has no interior maximum
	// (complete separation) and the estimates are running off to infinity
	divergeBound = 100.0
)

// Coef is one fitted coefficient.
type Coef struct {
	Name string
	Est  float64
	SE   float64
	P    float64 // two-sided, against the unit normal
}

// Result is a fitted model.  Predictors with zero variance in the sample are
// never passed to the solver; they are listed in Rejected with the reason.
type Result struct {
	Coefs      []Coef // intercept first
	Rejected   []string
	Iterations int
	LogLik     float64
	N          int
}

// String renders the coefficient table.
func (r *Result) String() string {
	out := fmt.Sprintf("n=%d, logLik=%.2f, %d iterations\n", r.N, r.LogLik, r.Iterations)
	out += fmt.Sprintf("%-44s %10s %10s %8s\n", "", "estimate", "std err", "p")
	for _, c := range r.Coefs {
		out += fmt.Sprintf("%-44s %10.4f %10.4f %8.4f\n", c.Name, c.Est, c.SE, c.P)
	}
	for _, rej := range r.Rejected {
		out += fmt.Sprintf("%-44s rejected: zero variance\n", rej)
	}
	return out
}

// DenialProb inverts the logistic link for a single-predictor fit:
// p(x) = exp(b0 + b1 x) / (1 + exp(b0 + b1 x)).
func (r *Result) DenialProb(x float64) float64 {
	eta := r.Coefs[0].Est
	if len(r.Coefs) > 1 {
		eta += r.Coefs[1].Est * x
	}
	return math.Exp(eta) / (1 + math.Exp(eta))
}

// Fit fits a logistic regression of y (0/1) on the predictor columns.  An
// intercept is always included.  Zero-variance predictors are detected
// before the solver sees them and reported in Result.Rejected; if every
// predictor is rejected the fit is intercept-only.
func Fit(y []float64, preds [][]float64, names []string) (*Result, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrNoData
	}
	if len(preds) != len(names) {
		return nil, fmt.Errorf("%d predictors but %d names", len(preds), len(names))
	}

	res := &Result{N: n}
	kept := make([][]float64, 0, len(preds))
	keptNames := make([]string, 0, len(names))
	for j, col := range preds {
		if len(col) != n {
			return nil, fmt.Errorf("predictor %s has %d rows, want %d", names[j], len(col), n)
		}
		if variance(col) == 0 {
			res.Rejected = append(res.Rejected, names[j])
			continue
		}
		kept = append(kept, col)
		keptNames = append(keptNames, names[j])
	}

	k := len(kept) + 1
	xd := make([]float64, n*k)
	for i := 0; i < n; i++ {
		xd[i*k] = 1
		for j, col := range kept {
			xd[i*k+1+j] = col[i]
		}
	}
	x := mat.NewDense(n, k, xd)
	yv := mat.NewVecDense(n, y)

	beta := mat.NewVecDense(k, nil)
	w := make([]float64, n)
	z := mat.NewVecDense(n, nil)
	var (
		eta  mat.VecDense
		info mat.Dense
		next mat.VecDense
	)

	converged := false
	for iter := 1; iter <= maxIter; iter++ {
		res.Iterations = iter
		eta.MulVec(x, beta)
		for i := 0; i < n; i++ {
			p := logistic(eta.AtVec(i))
			wi := p * (1 - p)
			if wi < minWeight {
				wi = minWeight
			}
			w[i] = wi
			z.SetVec(i, eta.AtVec(i)+(yv.AtVec(i)-p)/wi)
		}
		wd := mat.NewDiagDense(n, w)

		info.Product(x.T(), wd, x)
		var wz, xtwz mat.VecDense
		wz.MulVec(wd, z)
		xtwz.MulVec(x.T(), &wz)

		if err := next.SolveVec(&info, &xtwz); err != nil {
			return nil, fmt.Errorf("logistic fit: singular information matrix: %w", err)
		}

		delta := 0.0
		for j := 0; j < k; j++ {
			if d := math.Abs(next.AtVec(j) - beta.AtVec(j)); d > delta {
				delta = d
			}
		}
		beta.CopyVec(&next)
		for j := 0; j < k; j++ {
			if math.Abs(beta.AtVec(j)) > divergeBound {
				return nil, fmt.Errorf("%w: coefficient %s diverging (complete separation)", ErrNoConverge, colNamesAt(keptNames, j))
			}
		}
		if delta < tol {
			converged = true
			break
		}
	}
	if !converged {
		return nil, fmt.Errorf("%w after %d iterations", ErrNoConverge, maxIter)
	}

	var cov mat.Dense
	if err := cov.Inverse(&info); err != nil {
		return nil, fmt.Errorf("logistic fit: covariance not invertible: %w", err)
	}

	eta.MulVec(x, beta)
	for i := 0; i < n; i++ {
		p := logistic(eta.AtVec(i))
		res.LogLik += y[i]*math.Log(clamp(p)) + (1-y[i])*math.Log(clamp(1-p))
	}

	colNames := append([]string{"(intercept)"}, keptNames...)
	for j := 0; j < k; j++ {
		se := math.Sqrt(cov.At(j, j))
		c := Coef{Name: colNames[j], Est: beta.AtVec(j), SE: se}
		if se > 0 {
			c.P = 2 * distuv.UnitNormal.Survival(math.Abs(c.Est/se))
		} else {
			c.P = math.NaN()
		}
		res.Coefs = append(res.Coefs, c)
	}
	return res, nil
}

// IncomeModel fits denial against the income z-score.  zIncome is indexed
// like loans; withdrawn and purchased applications are excluded.
func IncomeModel(loans []raw.Loan, zIncome []float64) (*Result, error) {
	if len(zIncome) != len(loans) {
		return nil, fmt.Errorf("%d z-scores for %d loans", len(zIncome), len(loans))
	}
	var y, zs []float64
	for i, l := range loans {
		if !raw.ModelEligible(l.Action) {
			continue
		}
		y = append(y, outcome(l))
		zs = append(zs, zIncome[i])
	}
	return Fit(y, [][]float64{zs}, []string{"zIncome"})
}

// raceCodes are the one-hot categories; White (5) is the implicit baseline.
var raceCodes = []int{1, 2, 3, 4, 6}

// RaceModel fits denial against one-hot race indicators.  Categories absent
// from the sample have zero variance and surface in Result.Rejected.
func RaceModel(loans []raw.Loan) (*Result, error) {
	var eligible []raw.Loan
	for _, l := range loans {
		if raw.ModelEligible(l.Action) {
			eligible = append(eligible, l)
		}
	}
	if len(eligible) == 0 {
		return nil, ErrNoData
	}

	y := make([]float64, len(eligible))
	preds := make([][]float64, len(raceCodes))
	names := make([]string, len(raceCodes))
	for j, code := range raceCodes {
		preds[j] = make([]float64, len(eligible))
		name, err := raw.RaceName(code)
		if err != nil {
			return nil, err
		}
		names[j] = name
	}
	for i, l := range eligible {
		y[i] = outcome(l)
		for j, code := range raceCodes {
			if l.Race == code {
				preds[j][i] = 1
			}
		}
	}
	return Fit(y, preds, names)
}

// colNamesAt names design column j (0 is the intercept).
func colNamesAt(keptNames []string, j int) string {
	if j == 0 {
		return "(intercept)"
	}
	return keptNames[j-1]
}

func outcome(l raw.Loan) float64 {
	if raw.Denied(l.Action) {
		return 1
	}
	return 0
}

func logistic(eta float64) float64 {
	return 1 / (1 + math.Exp(-eta))
}

func clamp(p float64) float64 {
	const eps = 1e-12
	if p < eps {
		return eps
	}
	return p
}

func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := 0.0
	for _, v := range xs {
		m += v
	}
	m /= float64(len(xs))
	ss := 0.0
	for _, v := range xs {
		ss += (v - m) * (v - m)
	}
	return ss / float64(len(xs))
}
