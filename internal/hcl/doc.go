// Package hcl loads action specifications written in HCL.
//
// A file holds any number of action blocks:
//
//	action "build" "compile" {
//	  qualifiers = { os = "linux" }
//	  depends_on = ["fetch", "gen[os=linux]"]
//	  env        = { CC = "gcc" }
//	  timeout    = "5m"
//	  kill_grace = "10s"
//
//	  recipe {
//	    configure = [["./configure", "--host=${action.qualifiers.os}"]]
//	    build     = [["make", upper(action.name)]]
//	  }
//	}
//
// The two labels are the kind tag and the action name. Recipe attributes are
// evaluated against an EvalContext exposing action.name, action.kind and
// action.qualifiers plus a small set of string and collection functions; the
// result is one cty object handed untouched to the driver.
package hcl
