// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Dec 12th 2025
// Project: Bivariate Granger Causality Ratio Analysis
// Class: 02-613 at Caregie Mellon University

// Package timeseries holds the time-indexed panel every model in this module is fit on.
package timeseries

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Panel is a multivariate time series where every column shares one time index.
type Panel struct {
	// Matrix for data, rows are time points and columns are variables
	Y *mat.Dense
	// Time index, one entry per row, in chronological order
	Time []float64
	// List of variable names, one per column
	VarNames []string
}

// New builds a panel from named columns of equal length.
// If time is nil the index 0,1,2,... is used.
func New(names []string, time []float64, columns [][]float64) (*Panel, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("no variables provided")
	}
	if len(names) != len(columns) {
		return nil, fmt.Errorf("got %d names for %d columns", len(names), len(columns))
	}

	T := len(columns[0])
	if T == 0 {
		return nil, fmt.Errorf("no observations provided")
	}

	seen := make(map[string]bool, len(names))
	for k, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate variable name %q", name)
		}
		seen[name] = true
		if len(columns[k]) != T {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", name, len(columns[k]), T)
		}
	}

	if time == nil {
		time = make([]float64, T)
		for i := range time {
			time[i] = float64(i)
		}
	}
	if len(time) != T {
		return nil, fmt.Errorf("time index has %d entries, expected %d", len(time), T)
	}

	K := len(names)
	Y := mat.NewDense(T, K, nil)
	for k := 0; k < K; k++ {
		Y.SetCol(k, columns[k])
	}

	return &Panel{
		Y:        Y,
		Time:     append([]float64(nil), time...),
		VarNames: append([]string(nil), names...),
	}, nil
}

// Len returns the number of time points.
func (p *Panel) Len() int {
	if p == nil || p.Y == nil {
		return 0
	}
	T, _ := p.Y.Dims()
	return T
}

// Names returns a copy of the variable names.
func (p *Panel) Names() []string {
	return append([]string(nil), p.VarNames...)
}

// Index returns the column of a variable, or -1 if it is not in the panel.
func (p *Panel) Index(name string) int {
	for k, v := range p.VarNames {
		if v == name {
			return k
		}
	}
	return -1
}

// Column returns a copy of the values of one variable.
func (p *Panel) Column(name string) ([]float64, error) {
	k := p.Index(name)
	if k < 0 {
		return nil, fmt.Errorf("unknown variable %q", name)
	}
	return mat.Col(nil, k, p.Y), nil
}

// Select returns a panel with only the named columns, in the given order.
// Rows and the time index are shared semantics, so the result stays aligned.
func (p *Panel) Select(names ...string) (*Panel, error) {
	columns := make([][]float64, len(names))
	for i, name := range names {
		col, err := p.Column(name)
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return New(names, p.Time, columns)
}

// HasMissing reports whether any value in the panel is NaN.
func (p *Panel) HasMissing() bool {
	raw := p.Y.RawMatrix()
	for i := 0; i < raw.Rows; i++ {
		for _, v := range raw.Data[i*raw.Stride : i*raw.Stride+raw.Cols] {
			if math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// DropMissing returns the values of one variable with NaN entries removed.
func (p *Panel) DropMissing(name string) ([]float64, error) {
	col, err := p.Column(name)
	if err != nil {
		return nil, err
	}
	return DropNaN(col), nil
}

// DropNaN returns x without its NaN entries.
func DropNaN(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// CompleteRows returns the panel restricted to rows without any NaN, keeping their
// time index. The panel itself is returned when nothing is missing.
func (p *Panel) CompleteRows() *Panel {
	if !p.HasMissing() {
		return p
	}
	T, K := p.Y.Dims()
	data := make([]float64, 0, T*K)
	time := make([]float64, 0, T)
	row := make([]float64, K)
	for i := 0; i < T; i++ {
		mat.Row(row, i, p.Y)
		if floats.HasNaN(row) {
			continue
		}
		data = append(data, row...)
		time = append(time, p.Time[i])
	}
	out := &Panel{Time: time, VarNames: p.Names()}
	if n := len(time); n > 0 {
		out.Y = mat.NewDense(n, K, data)
	}
	return out
}
