package ast

// Production identifies the grammar production an anchor was derived from.
type Production int

const (
	ProdNone Production = iota

	// Top level
	ProdFile
	ProdScript
	ProdPackageDirective
	ProdImportDirective

	// Declarations
	ProdClass
	ProdObjectDeclaration
	ProdPrimaryConstructor
	ProdSuperTypeCallEntry
	ProdSuperTypeEntry
	ProdDelegatedSuperTypeEntry
	ProdClassInitializer
	ProdNamedFunction
	ProdParameter
	ProdProperty
	ProdDestructuringDeclaration
	ProdDestructuringEntry
	ProdVariable
	ProdPropertyAccessors
	ProdPropertyAccessor
	ProdTypeAlias
	ProdSecondaryConstructor
	ProdConstructorDelegationCall
	ProdEnumEntry
	ProdTypeParameter
	ProdTypeConstraint

	// Types
	ProdTypeReference
	ProdTypeProjection
	ProdUserType
	ProdNullableType
	ProdFunctionType
	ProdFunctionTypeParameter
	ProdParenthesizedType
	ProdDynamicType

	// Expressions
	ProdValueArgument
	ProdIfExpression
	ProdTryExpression
	ProdCatchClause
	ProdForExpression
	ProdWhileExpression
	ProdDoWhileExpression
	ProdBinaryExpression
	ProdDotQualifiedExpression
	ProdSafeQualifiedExpression
	ProdPrefixExpression
	ProdPostfixExpression
	ProdBinaryWithTypeRHS
	ProdIsExpression
	ProdCallableReference
	ProdClassLiteral
	ProdReceiverType
	ProdParenthesizedExpression
	ProdStringTemplate
	ProdLiteralStringEntry
	ProdShortTemplateEntry
	ProdEscapeStringEntry
	ProdLongTemplateEntry
	ProdConstantExpression
	ProdLambdaExpression
	ProdLambdaParameter
	ProdBlock
	ProdThisExpression
	ProdSuperExpression
	ProdWhenExpression
	ProdWhenEntry
	ProdWhenConditionExpression
	ProdWhenConditionInRange
	ProdWhenConditionIsPattern
	ProdObjectLiteral
	ProdThrowExpression
	ProdReturnExpression
	ProdContinueExpression
	ProdBreakExpression
	ProdCollectionLiteral
	ProdNameReference
	ProdLabeledExpression
	ProdAnnotatedExpression
	ProdCallExpression
	ProdLambdaArgument
	ProdArrayAccess

	// Modifiers
	ProdAnnotation
	ProdAnnotationEntry
	ProdModifier

	// Trivia
	ProdWhitespace
	ProdComment
)

var productionNames = [...]string{
	ProdNone:                      "none",
	ProdFile:                      "file",
	ProdScript:                    "script",
	ProdPackageDirective:          "package directive",
	ProdImportDirective:           "import directive",
	ProdClass:                     "class",
	ProdObjectDeclaration:         "object declaration",
	ProdPrimaryConstructor:        "primary constructor",
	ProdSuperTypeCallEntry:        "super type call entry",
	ProdSuperTypeEntry:            "super type entry",
	ProdDelegatedSuperTypeEntry:   "delegated super type entry",
	ProdClassInitializer:          "class initializer",
	ProdNamedFunction:             "named function",
	ProdParameter:                 "parameter",
	ProdProperty:                  "property",
	ProdDestructuringDeclaration:  "destructuring declaration",
	ProdDestructuringEntry:        "destructuring entry",
	ProdVariable:                  "variable",
	ProdPropertyAccessors:         "property accessors",
	ProdPropertyAccessor:          "property accessor",
	ProdTypeAlias:                 "type alias",
	ProdSecondaryConstructor:      "secondary constructor",
	ProdConstructorDelegationCall: "constructor delegation call",
	ProdEnumEntry:                 "enum entry",
	ProdTypeParameter:             "type parameter",
	ProdTypeConstraint:            "type constraint",
	ProdTypeReference:             "type reference",
	ProdTypeProjection:            "type projection",
	ProdUserType:                  "user type",
	ProdNullableType:              "nullable type",
	ProdFunctionType:              "function type",
	ProdFunctionTypeParameter:     "function type parameter",
	ProdParenthesizedType:         "parenthesized type",
	ProdDynamicType:               "dynamic type",
	ProdValueArgument:             "value argument",
	ProdIfExpression:              "if expression",
	ProdTryExpression:             "try expression",
	ProdCatchClause:               "catch clause",
	ProdForExpression:             "for expression",
	ProdWhileExpression:           "while expression",
	ProdDoWhileExpression:         "do-while expression",
	ProdBinaryExpression:          "binary expression",
	ProdDotQualifiedExpression:    "dot qualified expression",
	ProdSafeQualifiedExpression:   "safe qualified expression",
	ProdPrefixExpression:          "prefix expression",
	ProdPostfixExpression:         "postfix expression",
	ProdBinaryWithTypeRHS:         "binary with type rhs",
	ProdIsExpression:              "is expression",
	ProdCallableReference:         "callable reference",
	ProdClassLiteral:              "class literal",
	ProdReceiverType:              "receiver type",
	ProdParenthesizedExpression:   "parenthesized expression",
	ProdStringTemplate:            "string template",
	ProdLiteralStringEntry:        "literal string entry",
	ProdShortTemplateEntry:        "short template entry",
	ProdEscapeStringEntry:         "escape string entry",
	ProdLongTemplateEntry:         "long template entry",
	ProdConstantExpression:        "constant expression",
	ProdLambdaExpression:          "lambda expression",
	ProdLambdaParameter:           "lambda parameter",
	ProdBlock:                     "block",
	ProdThisExpression:            "this expression",
	ProdSuperExpression:           "super expression",
	ProdWhenExpression:            "when expression",
	ProdWhenEntry:                 "when entry",
	ProdWhenConditionExpression:   "when condition",
	ProdWhenConditionInRange:      "when condition in range",
	ProdWhenConditionIsPattern:    "when condition is pattern",
	ProdObjectLiteral:             "object literal",
	ProdThrowExpression:           "throw expression",
	ProdReturnExpression:          "return expression",
	ProdContinueExpression:        "continue expression",
	ProdBreakExpression:           "break expression",
	ProdCollectionLiteral:         "collection literal",
	ProdNameReference:             "name reference",
	ProdLabeledExpression:         "labeled expression",
	ProdAnnotatedExpression:       "annotated expression",
	ProdCallExpression:            "call expression",
	ProdLambdaArgument:            "lambda argument",
	ProdArrayAccess:               "array access",
	ProdAnnotation:                "annotation",
	ProdAnnotationEntry:           "annotation entry",
	ProdModifier:                  "modifier",
	ProdWhitespace:                "whitespace",
	ProdComment:                   "comment",
}

func (p Production) String() string {
	if p < 0 || int(p) >= len(productionNames) {
		return "unknown"
	}
	return productionNames[p]
}
