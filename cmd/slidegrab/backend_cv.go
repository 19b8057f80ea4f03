//go:build with_cv
// +build with_cv

package main

import (
	_ "github.com/xaionaro-go/slidegrab/framesource/cvsource"
)
