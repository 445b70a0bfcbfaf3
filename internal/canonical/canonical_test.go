package canonical

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"小写", "ELDEN RING", "elden ring"},
		{"去标点", "Foo: Bar's Adventure!", "foo bars adventure"},
		{"压空白", "  Foo   Bar  ", "foo bar"},
		{"剥豪华版后缀", "Foo: Deluxe Edition", "foo"},
		{"剥年度版后缀", "The Witcher 3: Wild Hunt - Game of the Year Edition", "the witcher 3 wild hunt"},
		{"长后缀优先", "Foo Digital Deluxe Edition", "foo"},
		{"后缀叠加", "Foo GOTY Deluxe Edition", "foo"},
		{"保留非拉丁字符", "空洞騎士: Deluxe Edition", "空洞騎士"},
		{"非后缀位置不剥", "Deluxe Edition Simulator", "deluxe edition simulator"},
		{"捆绑包名不受影响", "Stellaris: Species Pack Bundle", "stellaris species pack bundle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Canonicalize(tc.in))
		})
	}
}

func TestCanonicalizeNeverStripsToEmpty(t *testing.T) {
	// 名字本身就是后缀词：照常规范化，不能剥成空串
	require.Equal(t, "deluxe edition", Canonicalize("Deluxe Edition"))
	require.Equal(t, "goty", Canonicalize("GOTY"))
}

func TestCanonicalizeIsStable(t *testing.T) {
	// 规范化结果再规范化不变（身份表里的 cname 可以安全复用该函数比对）
	in := "Foo: Deluxe Edition"
	once := Canonicalize(in)
	require.Equal(t, once, Canonicalize(once))
}
