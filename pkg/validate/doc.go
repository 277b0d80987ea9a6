/*
Package validate checks a canvas for structural and semantic problems.

Validation never fails: it always returns a Result listing blocking errors
and advisory warnings. Two modes exist. Draft mode is permissive and is used
after every editing action. Strict mode is applied before publishing and
escalates several warnings (missing delay durations, condition nodes without
two branches, decisions whose choices have no edges) to errors.

	res := validate.Canvas(doc, validate.Strict())
	if !res.OK {
	    return res.Err()
	}
*/
package validate
