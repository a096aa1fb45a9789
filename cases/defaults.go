package cases

import "github.com/calc-api/contract-tests/servicedef"

// DefaultCases returns the built-in cases that exercise each arithmetic operation, using
// query string operands.
func DefaultCases() []TestCase {
	return []TestCase{
		binaryOp(servicedef.PathAdd, 2, 2, 4, "add(2,2)"),
		binaryOp(servicedef.PathSubtract, 2, 2, 0, "subtract(2,2)"),
		binaryOp(servicedef.PathMultiply, 2, 2, 4, "multiply(2,2)"),
		binaryOp(servicedef.PathAdd, -1, 1, 0, "add(-1,1)"),
	}
}

func binaryOp(path string, a, b, expected int, description string) TestCase {
	return TestCase{
		Endpoint:    NewEndpoint(path, Param(servicedef.ParamA, a), Param(servicedef.ParamB, b)),
		Expected:    expected,
		Description: description,
	}
}
