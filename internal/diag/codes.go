package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Manifest loading (the parser stand-in)
	SynInfo             Code = 2000
	SynManifestDecode   Code = 2001
	SynUnknownDeclKind  Code = 2002
	SynBadTypeSyntax    Code = 2003
	SynMissingName      Code = 2004
	SynMemberNotAllowed Code = 2005
	SynPrototypeBody    Code = 2006

	// Declaration analysis
	SemaInfo                    Code = 3000
	SemaError                   Code = 3001
	SemaDeclConflict            Code = 3002
	SemaIdentifierNotDeclared   Code = 3005
	SemaOverrideMismatch        Code = 3006
	SemaInterfaceNotImplemented Code = 3040

	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		SynInfo:                     "Manifest information",
		SynManifestDecode:           "Malformed declaration manifest",
		SynUnknownDeclKind:          "Unknown declaration kind",
		SynBadTypeSyntax:            "Malformed type",
		SynMissingName:              "Declaration without a name",
		SynMemberNotAllowed:         "Member not allowed here",
		SynPrototypeBody:            "Interface method with a body",
		SemaInfo:                    "Semantic information",
		SemaError:                   "Semantic error",
		SemaDeclConflict:            "Conflicting declaration",
		SemaIdentifierNotDeclared:   "Identifier not declared",
		SemaOverrideMismatch:        "Override does not match inherited signature",
		SemaInterfaceNotImplemented: "Interface not implemented",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Diagnostic cache error",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// LookupKind says what an unresolved name was expected to denote.
type LookupKind uint8

const (
	LookingForType LookupKind = iota
	LookingForClass
	LookingForInterface
)

func (k LookupKind) String() string {
	switch k {
	case LookingForType:
		return "type"
	case LookingForClass:
		return "class"
	case LookingForInterface:
		return "interface"
	default:
		return "name"
	}
}
