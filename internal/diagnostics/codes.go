package diagnostics

// Code is a stable, user-facing error-kind identifier. The taxonomy
// mirrors spec.md §7's error kind list; codes are grouped by the stage
// that raises them the way the teacher groups lexer/parser/type-checker
// codes by a letter prefix.
type Code string

const (
	// Resolver (R prefix)
	UnresolvedSymbol   Code = "R0001"
	AmbiguousSymbol    Code = "R0002"
	CannotCast         Code = "R0003"
	CannotImplicitCast Code = "R0004"
	DuplicateFunction  Code = "R0005"
	DuplicateName      Code = "R0006"
	ExpectedValue      Code = "R0007"
	ExpectedType       Code = "R0008"
	CannotTakeSizeOf   Code = "R0009"
	NotYetImplemented  Code = "R0010"

	// Type system (T prefix)
	IllegalArraySize       Code = "T0001"
	NonIntegerArraySize    Code = "T0002"
	RecursiveTypes         Code = "T0003"
	TypeContainsItself     Code = "T0004"
	WrongArgsForAggregate  Code = "T0005"
	IllegalTypeForEndpoint Code = "T0006"
	DuplicateEndpointTypes Code = "T0007"

	// Validator (V prefix)
	MultipleRunFunctions      Code = "V0001"
	ProcessorNeedsRunFunction Code = "V0002"
	ProcessorNeedsOutput      Code = "V0003"
	StaticAssertionFailure    Code = "V0004"
	PreIncDecCollision        Code = "V0005"
	ComparisonAlwaysTrue      Code = "V0006"
	ComparisonAlwaysFalse     Code = "V0007"
	DelayLineTooLong          Code = "V0008"
	DelayLineTooShort         Code = "V0009"
	EventFunctionInvalidType  Code = "V0010"
	EventFunctionInvalidArgs  Code = "V0011"
	MemberCannotBeConst       Code = "V0012"
	VariableCannotBeVoid      Code = "V0013"
	CannotReadFromOutput      Code = "V0014"

	// Graph structure (G prefix)
	RecursiveGraph  Code = "G0001"
	FeedbackInGraph Code = "G0002"

	// Internal (I prefix): failures in the compiler's own machinery
	// rather than in the program being compiled (spec.md §7).
	InternalError Code = "I0001"
)
