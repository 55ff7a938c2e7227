package cindex

import "fmt"

// CursorKind is the node-kind tag carried in a cursor handle
// (CXCursorKind).
type CursorKind uint32

const (
	CursorUnexposedDecl       CursorKind = 1
	CursorStructDecl          CursorKind = 2
	CursorUnionDecl           CursorKind = 3
	CursorClassDecl           CursorKind = 4
	CursorEnumDecl            CursorKind = 5
	CursorFieldDecl           CursorKind = 6
	CursorEnumConstantDecl    CursorKind = 7
	CursorFunctionDecl        CursorKind = 8
	CursorVarDecl             CursorKind = 9
	CursorParmDecl            CursorKind = 10
	CursorTypedefDecl         CursorKind = 20
	CursorCXXMethod           CursorKind = 21
	CursorNamespace           CursorKind = 22
	CursorConstructor         CursorKind = 24
	CursorDestructor          CursorKind = 25
	CursorTypeRef             CursorKind = 43
	CursorInvalidFile         CursorKind = 70
	CursorNoDeclFound         CursorKind = 71
	CursorNotImplemented      CursorKind = 72
	CursorUnexposedExpr       CursorKind = 100
	CursorDeclRefExpr         CursorKind = 101
	CursorCallExpr            CursorKind = 103
	CursorIntegerLiteral      CursorKind = 106
	CursorUnexposedStmt       CursorKind = 200
	CursorCompoundStmt        CursorKind = 202
	CursorTranslationUnitDecl CursorKind = 300
)

var cursorKindNames = map[CursorKind]string{
	CursorUnexposedDecl:       "UnexposedDecl",
	CursorStructDecl:          "StructDecl",
	CursorUnionDecl:           "UnionDecl",
	CursorClassDecl:           "ClassDecl",
	CursorEnumDecl:            "EnumDecl",
	CursorFieldDecl:           "FieldDecl",
	CursorEnumConstantDecl:    "EnumConstantDecl",
	CursorFunctionDecl:        "FunctionDecl",
	CursorVarDecl:             "VarDecl",
	CursorParmDecl:            "ParmDecl",
	CursorTypedefDecl:         "TypedefDecl",
	CursorCXXMethod:           "CXXMethod",
	CursorNamespace:           "Namespace",
	CursorConstructor:         "Constructor",
	CursorDestructor:          "Destructor",
	CursorTypeRef:             "TypeRef",
	CursorInvalidFile:         "InvalidFile",
	CursorNoDeclFound:         "NoDeclFound",
	CursorNotImplemented:      "NotImplemented",
	CursorUnexposedExpr:       "UnexposedExpr",
	CursorDeclRefExpr:         "DeclRefExpr",
	CursorCallExpr:            "CallExpr",
	CursorIntegerLiteral:      "IntegerLiteral",
	CursorUnexposedStmt:       "UnexposedStmt",
	CursorCompoundStmt:        "CompoundStmt",
	CursorTranslationUnitDecl: "TranslationUnit",
}

func (k CursorKind) String() string {
	if name, ok := cursorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("CursorKind(%d)", uint32(k))
}

// TypeKind is the kind tag carried in a type handle (CXTypeKind).
type TypeKind uint32

const (
	TypeInvalid       TypeKind = 0
	TypeUnexposed     TypeKind = 1
	TypeVoid          TypeKind = 2
	TypeBool          TypeKind = 3
	TypeUInt          TypeKind = 9
	TypeInt           TypeKind = 17
	TypeLong          TypeKind = 18
	TypeFloat         TypeKind = 21
	TypeDouble        TypeKind = 22
	TypePointer       TypeKind = 101
	TypeRecord        TypeKind = 105
	TypeEnum          TypeKind = 106
	TypeTypedef       TypeKind = 107
	TypeFunctionProto TypeKind = 111
	TypeConstantArray TypeKind = 112
)

var typeKindNames = map[TypeKind]string{
	TypeInvalid:       "Invalid",
	TypeUnexposed:     "Unexposed",
	TypeVoid:          "Void",
	TypeBool:          "Bool",
	TypeUInt:          "UInt",
	TypeInt:           "Int",
	TypeLong:          "Long",
	TypeFloat:         "Float",
	TypeDouble:        "Double",
	TypePointer:       "Pointer",
	TypeRecord:        "Record",
	TypeEnum:          "Enum",
	TypeTypedef:       "Typedef",
	TypeFunctionProto: "FunctionProto",
	TypeConstantArray: "ConstantArray",
}

func (k TypeKind) String() string {
	if name, ok := typeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("TypeKind(%d)", uint32(k))
}

// TokenKind classifies a token (CXTokenKind).
type TokenKind uint32

const (
	TokenPunctuation TokenKind = 0
	TokenKeyword     TokenKind = 1
	TokenIdentifier  TokenKind = 2
	TokenLiteral     TokenKind = 3
	TokenComment     TokenKind = 4
)

func (k TokenKind) String() string {
	switch k {
	case TokenPunctuation:
		return "Punctuation"
	case TokenKeyword:
		return "Keyword"
	case TokenIdentifier:
		return "Identifier"
	case TokenLiteral:
		return "Literal"
	case TokenComment:
		return "Comment"
	}
	return fmt.Sprintf("TokenKind(%d)", uint32(k))
}

// DiagnosticSeverity ranks a diagnostic (CXDiagnosticSeverity).
type DiagnosticSeverity uint32

const (
	SeverityIgnored DiagnosticSeverity = 0
	SeverityNote    DiagnosticSeverity = 1
	SeverityWarning DiagnosticSeverity = 2
	SeverityError   DiagnosticSeverity = 3
	SeverityFatal   DiagnosticSeverity = 4
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case SeverityIgnored:
		return "ignored"
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	}
	return fmt.Sprintf("severity(%d)", uint32(s))
}

// ParseFlags are CXTranslationUnit_Flags options for ParseTranslationUnit.
type ParseFlags uint32

const (
	ParseNone                        ParseFlags = 0x0
	ParseDetailedPreprocessingRecord ParseFlags = 0x01
	ParseIncomplete                  ParseFlags = 0x02
	ParsePrecompiledPreamble         ParseFlags = 0x04
	ParseCacheCompletionResults      ParseFlags = 0x08
	ParseSkipFunctionBodies          ParseFlags = 0x40
)
