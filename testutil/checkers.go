// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2026 Canonical Ltd
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License version 3 as
 * published by the Free Software Foundation.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 */
package testutil

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/check.v1"
)

type containsChecker struct {
	*check.CheckerInfo
}

// Contains is a Checker that looks for a needle in a haystack.
// The haystack can be a string, a slice, an array or a map (values are
// searched).
var Contains check.Checker = &containsChecker{
	&check.CheckerInfo{Name: "Contains", Params: []string{"haystack", "needle"}},
}

func (c *containsChecker) Check(params []interface{}, names []string) (result bool, error string) {
	defer func() {
		if v := recover(); v != nil {
			result = false
			error = fmt.Sprint(v)
		}
	}()
	haystack, needle := params[0], params[1]
	switch haystackV := reflect.ValueOf(haystack); haystackV.Kind() {
	case reflect.String:
		return strings.Contains(haystack.(string), needle.(string)), ""
	case reflect.Slice, reflect.Array:
		if haystackV.Type().Elem() != reflect.TypeOf(needle) {
			panic(fmt.Sprintf("haystack contains items of type %s but needle is a %T",
				haystackV.Type().Elem(), needle))
		}
		for i := 0; i < haystackV.Len(); i++ {
			if haystackV.Index(i).Interface() == needle {
				return true, ""
			}
		}
		return false, ""
	case reflect.Map:
		if haystackV.Type().Elem() != reflect.TypeOf(needle) {
			panic(fmt.Sprintf("haystack contains items of type %s but needle is a %T",
				haystackV.Type().Elem(), needle))
		}
		iter := haystackV.MapRange()
		for iter.Next() {
			if iter.Value().Interface() == needle {
				return true, ""
			}
		}
		return false, ""
	default:
		panic(fmt.Sprintf("haystack is of unsupported type %T", haystack))
	}
}
