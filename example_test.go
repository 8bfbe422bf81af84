package tre_test

import (
	"fmt"

	"github.com/coregx/tre"
)

// ExampleCompile demonstrates basic pattern compilation and matching.
func ExampleCompile() {
	re, err := tre.Compile(`\d+`, tre.Advanced)
	if err != nil {
		panic(err)
	}

	got := re.Exec([]byte("hello 123"), 0)
	fmt.Println(got.Matched)
	// Output: true
}

// ExampleMustCompile demonstrates panic-on-error compilation.
func ExampleMustCompile() {
	re := tre.MustCompile(`hello`, tre.Advanced)
	got := re.Exec([]byte("hello world"), 0)
	fmt.Println(got.Matched)
	// Output: true
}

// ExampleRegexp_Exec demonstrates locating a match and its span.
func ExampleRegexp_Exec() {
	re := tre.MustCompile(`\d+`, tre.Advanced)
	got := re.Exec([]byte("age: 42 years"), 0)
	fmt.Printf("[%d,%d)\n", got.Spans[0].Start, got.Spans[0].End)
	// Output: [5,7)
}

// ExampleRegexp_Exec_captures demonstrates reading capture group spans.
func ExampleRegexp_Exec_captures() {
	re := tre.MustCompile(`(a+)(b+)`, tre.Advanced)
	got := re.Exec([]byte("aaabbc"), 0)
	fmt.Printf("group1=[%d,%d) group2=[%d,%d)\n",
		got.Spans[1].Start, got.Spans[1].End,
		got.Spans[2].Start, got.Spans[2].End)
	// Output: group1=[0,3) group2=[3,5)
}

// ExampleCompileWithConfig demonstrates tuning the resource/prefilter config.
func ExampleCompileWithConfig() {
	cfg := tre.DefaultConfig()
	cfg.MinLiteralLen = 1

	execCfg := tre.DefaultExecConfig()
	execCfg.DFACacheSize = 64

	re, err := tre.CompileWithConfig("(a|b|c)*", tre.Advanced, cfg, execCfg)
	if err != nil {
		panic(err)
	}

	got := re.Exec([]byte("abcabc"), 0)
	fmt.Println(got.Matched)
	// Output: true
}
