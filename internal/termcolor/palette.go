package termcolor

// 表形式出力で使うスタイル定義。目で確認したいのは「どのドメインが一致し、
// 何に置き換わるか」だけなので、配色は最小限に抑えている。

func HeaderStyle() Style {
	return Style{Bold: true, Underline: true}
}

// DomainStyle は置換対象として検出されたテキストドメインの強調色を返す。
func DomainStyle(profile Profile) Style {
	switch profile {
	case ProfileTrueColor:
		rgb := [3]uint8{229, 83, 75}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		idx := 167
		return Style{FG256: &idx}
	default:
		color := 1
		return Style{FGBasic: &color}
	}
}

// ReplacementStyle は置換後のドメイン文字列の強調色を返す。
func ReplacementStyle(profile Profile) Style {
	switch profile {
	case ProfileTrueColor:
		rgb := [3]uint8{87, 171, 90}
		return Style{FGTrue: &rgb}
	case ProfileANSI256:
		idx := 71
		return Style{FG256: &idx}
	default:
		color := 2
		return Style{FGBasic: &color}
	}
}

func LocationStyle() Style {
	return Style{Dim: true}
}

// FixedStyle は書き込み済みの行を緑の太字、未適用の行を淡色で示す。
func FixedStyle(fixed bool) Style {
	if fixed {
		color := 2
		return Style{FGBasic: &color, Bold: true}
	}
	return Style{Dim: true}
}
