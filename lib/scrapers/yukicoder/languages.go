package yukicoder

// The submit form's language list, frozen at one observed version of the
// site. yukicoder has no per-problem language variation.
type Language struct {
	ID          string
	Description string
}

var languages = []Language{
	{"cpp", "C++11 (gcc 4.8.5)"},
	{"cpp14", "C++14 (gcc 6.2.0)"},
	{"c", "C (gcc 4.8.5)"},
	{"java8", "Java8 (openjdk 1.8.0_111)"},
	{"csharp", "C# (mono 4.6.1)"},
	{"perl", "Perl (5.16.3)"},
	{"perl6", "Perl6 (rakudo 2016.10-114-g8e79509)"},
	{"php", "PHP (5.4.16)"},
	{"python", "Python2 (2.7.11)"},
	{"python3", "Python3 (3.5.1)"},
	{"pypy2", "PyPy2 (4.0.0)"},
	{"pypy3", "PyPy3 (2.4.0)"},
	{"ruby", "Ruby (2.3.1p112)"},
	{"d", "D (dmd 2.071.1)"},
	{"go", "Go (1.7.3)"},
	{"haskell", "Haskell (7.8.3)"},
	{"scala", "Scala (2.11.8)"},
	{"nim", "Nim (0.15.2)"},
	{"rust", "Rust (1.12.1)"},
	{"kotlin", "Kotlin (1.0.2)"},
	{"scheme", "Scheme (Gauche-0.9.4)"},
	{"crystal", "Crystal (0.19.4)"},
	{"ocaml", "OCaml (4.01.1)"},
	{"fsharp", "F# (4.0)"},
	{"elixir", "Elixir (0.12.5)"},
	{"lua", "Lua (LuaJit 2.0.4)"},
	{"fortran", "Fortran (gFortran 4.8.5)"},
	{"node", "JavaScript (node v7.0.0)"},
	{"vim", "Vim script (v8.0.0124)"},
	{"sh", "Bash (Bash 4.2.46)"},
	{"text", "Text (cat 8.22)"},
	{"nasm", "Assembler (nasm 2.10.07)"},
	{"bf", "Brainfuck (BFI 1.1)"},
	{"Whitespace", "Whitespace (0.3)"},
}

// Languages returns every submittable language id in form order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

func IsKnownLanguage(id string) bool {
	for _, l := range languages {
		if l.ID == id {
			return true
		}
	}
	return false
}

func LanguageDescription(id string) (string, bool) {
	for _, l := range languages {
		if l.ID == id {
			return l.Description, true
		}
	}
	return "", false
}
