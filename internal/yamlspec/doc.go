// Package yamlspec loads action specifications written in YAML.
//
// A document carries an actions list; every entry has the same fields as the
// HCL action block:
//
//	actions:
//	  - name: compile
//	    kind: build
//	    qualifiers: {os: linux}
//	    depends_on: [fetch]
//	    env: {CC: gcc}
//	    timeout: 5m
//	    recipe:
//	      build: [[make, "-j4"]]
//
// Before decoding, the document goes through a CaseParser. Mapping keys of
// the form case_<selector> pick one branch by the selector's value, +key and
// key+ append or prepend to an inherited value, and %(name)s placeholders in
// strings are replaced by selector values.
package yamlspec
