//go:build unit

package expr

import (
	"errors"
	"strings"
)

type account struct {
	ID      string
	Balance int
	Owner   *owner
	Tags    []string
	Meta    meta
	secret  string
}

type meta struct {
	Note string
}

type owner struct {
	Name string
}

func (a account) Label() string { return a.ID + ":" + a.secret }

func (a *account) Deposit(n int) int {
	a.Balance += n
	return a.Balance
}

func (o *owner) Greeting(prefix string, names ...string) string {
	return prefix + " " + o.Name + strings.Join(names, "")
}

var errLookup = errors.New("lookup failed")

func find(id string) (*account, error) {
	if id == "" {
		return nil, errLookup
	}

	return &account{ID: id}, nil
}

type shape interface {
	Area() float64
}

type square struct{ Side float64 }

func (s square) Area() float64 { return s.Side * s.Side }

type level int

const (
	levelLow level = iota + 1
	levelHigh
)

func (l level) String() string {
	switch l {
	case levelLow:
		return "Low"
	case levelHigh:
		return "High"
	default:
		return "level(?)"
	}
}
