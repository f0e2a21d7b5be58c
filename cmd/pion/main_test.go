package main

import (
	"testing"

	"github.com/pion-lang/pion/internal/config"
)

func TestElaborateAndFormatEvalUnfoldsFixByDefault(t *testing.T) {
	src := "let rec fact : Int -> Int = fun n => if eq n 0 then 1 else mul n (fact (sub n 1)); fact 5"

	out, ok := elaborateAndFormat("<test>", src, &config.Config{}, true)
	if !ok {
		t.Fatalf("expected no elaboration errors, got output %q", out)
	}
	if want := "120 : Int"; out != want {
		t.Fatalf("elaborateAndFormat(eval) = %q, want %q", out, want)
	}
}

func TestElaborateAndFormatCheckLeavesFixFolded(t *testing.T) {
	src := "let rec fact : Int -> Int = fun n => if eq n 0 then 1 else mul n (fact (sub n 1)); fact 5"

	out, ok := elaborateAndFormat("<test>", src, &config.Config{}, false)
	if !ok {
		t.Fatalf("expected no elaboration errors, got output %q", out)
	}
	if out == "120 : Int" {
		t.Fatalf("elaborateAndFormat(check) should not normalize away fix, got %q", out)
	}
}

func TestElaborateAndFormatExplicitConfigOverridesEvalDefault(t *testing.T) {
	src := "let rec fact : Int -> Int = fun n => if eq n 0 then 1 else mul n (fact (sub n 1)); fact 5"
	unfold := false

	out, ok := elaborateAndFormat("<test>", src, &config.Config{UnfoldFix: &unfold}, true)
	if !ok {
		t.Fatalf("expected no elaboration errors, got output %q", out)
	}
	if out == "120 : Int" {
		t.Fatalf("explicit unfold_fix: false should leave fix folded even under eval, got %q", out)
	}
}
