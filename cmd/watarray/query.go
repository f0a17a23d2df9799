package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	watarray "github.com/AlexWan0/go-watarray"
)

type queryOp struct {
	args []string
	run  func(wa *watarray.WatArray, a []uint64) (string, error)
}

func count(v uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(v, 10), nil
}

func posVal(pos, val uint64, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("pos=%d val=%d", pos, val), nil
}

var queryOps = map[string]queryOp{
	"info": {nil, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return fmt.Sprintf("length=%d alphabetNum=%d", wa.Length(), wa.AlphabetNum()), nil
	}},
	"lookup": {[]string{"pos"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.Lookup(a[0]))
	}},
	"rank": {[]string{"c", "pos"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.Rank(a[0], a[1]))
	}},
	"select": {[]string{"c", "rank"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.Select(a[0], a[1]))
	}},
	"freq": {[]string{"c"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.Freq(a[0]))
	}},
	"less": {[]string{"c", "pos"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.RankLessThan(a[0], a[1]))
	}},
	"more": {[]string{"c", "pos"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.RankMoreThan(a[0], a[1]))
	}},
	"range": {[]string{"minc", "maxc", "b", "e"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return count(wa.RankRange(a[0], a[1], a[2], a[3]))
	}},
	"min": {[]string{"b", "e"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return posVal(wa.RangeMinQuery(a[0], a[1]))
	}},
	"max": {[]string{"b", "e"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return posVal(wa.RangeMaxQuery(a[0], a[1]))
	}},
	"kth": {[]string{"b", "e", "k"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		return posVal(wa.RangeTopKQuery(a[0], a[1], a[2]))
	}},
	"list": {[]string{"b", "e", "n"}, func(wa *watarray.WatArray, a []uint64) (string, error) {
		res, err := wa.ListRange(a[0], a[1], a[2])
		if err != nil {
			return "", err
		}
		lines := make([]string, 0, len(res))
		for _, lr := range res {
			lines = append(lines, fmt.Sprintf("%d\t%d", lr.C, lr.Freq))
		}
		return strings.Join(lines, "\n"), nil
	}},
}

func opNames() []string {
	names := make([]string, 0, len(queryOps))
	for name, op := range queryOps {
		names = append(names, strings.Join(append([]string{name}, op.args...), " "))
	}
	sort.Strings(names)
	return names
}

func runQuery(wa *watarray.WatArray, name string, args []string) (string, error) {
	op, ok := queryOps[name]
	if !ok {
		return "", fmt.Errorf("%w: unknown op %q", errUsage, name)
	}
	if len(args) != len(op.args) {
		return "", fmt.Errorf("%w: %s takes %s", errUsage, name, strings.Join(op.args, " "))
	}
	vals := make([]uint64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op.args[i], err)
		}
		vals[i] = v
	}
	return op.run(wa, vals)
}
