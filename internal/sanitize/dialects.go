package sanitize

// Per-language dialects used by the fact extractors and the security rule
// engine. Declared once here so every crawler shares the same sanitizer
// behavior for a given language (§4.1).
var (
	JavaScript = Dialect{
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars: []byte{'\'', '"', '`'},
	}

	Python = Dialect{
		LineComments: []string{"#"},
		QuoteChars:   []byte{'\'', '"'},
		TripleChars:  []byte{'\'', '"'},
		Sigils:       "rubf",
		MaxSigilLen:  2,
	}

	Go = Dialect{
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars: []byte{'"', '`', '\''},
	}

	Rust = Dialect{
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars: []byte{'"', '\''},
	}

	Java = Dialect{
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars:  []byte{'"', '\''},
		TripleChars: []byte{'"'},
	}

	Kotlin = Dialect{
		LineComments: []string{"//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars:  []byte{'"', '\''},
		TripleChars: []byte{'"'},
	}

	CSharp = Dialect{
		LineComments: []string{"///", "//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars: []byte{'"', '\''},
		Sigils:     "@",
	}

	Dart = Dialect{
		LineComments: []string{"///", "//"},
		BlockOpen:    "/*", BlockClose: "*/",
		QuoteChars:  []byte{'"', '\''},
		TripleChars: []byte{'"', '\''},
		Sigils:      "r",
	}
)
