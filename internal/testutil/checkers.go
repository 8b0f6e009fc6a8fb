// -*- Mode: Go; indent-tabs-mode: t -*-

/*
 * Copyright (C) 2021 Canonical Ltd
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
	"errors"
	"reflect"

	. "gopkg.in/check.v1"
)

type isTrueChecker struct {
	*CheckerInfo
}

// IsTrue checks that the supplied bool is true.
var IsTrue Checker = &isTrueChecker{
	&CheckerInfo{Name: "IsTrue", Params: []string{"value"}}}

func (checker *isTrueChecker) Check(params []interface{}, names []string) (result bool, error string) {
	value := reflect.ValueOf(params[0])
	if value.Kind() != reflect.Bool {
		return false, names[0] + " is not a bool"
	}
	return value.Bool(), ""
}

type isFalseChecker struct {
	*CheckerInfo
}

// IsFalse checks that the supplied bool is false.
var IsFalse Checker = &isFalseChecker{
	&CheckerInfo{Name: "IsFalse", Params: []string{"value"}}}

func (checker *isFalseChecker) Check(params []interface{}, names []string) (result bool, error string) {
	value := reflect.ValueOf(params[0])
	if value.Kind() != reflect.Bool {
		return false, names[0] + " is not a bool"
	}
	return !value.Bool(), ""
}

type errorIsChecker struct {
	*CheckerInfo
}

// ErrorIs checks that errors.Is returns true for the supplied error and
// expected target.
var ErrorIs Checker = &errorIsChecker{
	&CheckerInfo{Name: "ErrorIs", Params: []string{"value", "expected"}}}

func (checker *errorIsChecker) Check(params []interface{}, names []string) (result bool, errStr string) {
	err, ok := params[0].(error)
	if !ok {
		return false, names[0] + " is not an error"
	}
	expected, ok := params[1].(error)
	if !ok {
		return false, names[1] + " is not an error"
	}
	return errors.Is(err, expected), ""
}
