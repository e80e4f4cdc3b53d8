package catalog

const (
	ProgramRepeaters = "a"
	ProgramMaxHang   = "b"
	ProgramTest      = "test"
)

func repeater(id, name string, set1, set2 float64) Exercise {
	return Exercise{ID: id, Name: name, DefaultSet1Weight: set1, DefaultSet2Weight: set2, Set1Reps: 7, Set2Reps: 6}
}

func maxHang(id, name string, sets, breakSecs int, skip bool) Exercise {
	return Exercise{
		ID: id, Name: name, Set1Reps: 1, Set2Reps: 1,
		NumSets: sets, RepsPerSet: 1, HangSecs: 10, BreakSecs: breakSecs,
		SkipProgression: skip,
	}
}

func Repeaters() Program {
	jug := repeater("jug", "Jug", 0, 0)
	jug.SkipProgression = true
	return Program{
		ID:   ProgramRepeaters,
		Name: "Repeaters",
		Exercises: []Exercise{
			jug,
			repeater("large-edge", "Large Edge", 5, 15),
			repeater("mr-shallow", "MR Shallow", -35, -25),
			repeater("small-edge", "Small Edge", -20, -10),
			repeater("imr-shallow", "IMR Shallow", 10, 0),
			repeater("wide-pinch", "Wide Pinch", -45, -35),
			repeater("sloper", "Sloper", -17.5, -7.5),
			repeater("med-pinch", "Med Pinch", -50, -40),
		},
	}
}

func MaxHang() Program {
	return Program{
		ID:   ProgramMaxHang,
		Name: "Max Hang",
		Exercises: []Exercise{
			maxHang("b-jug", "Jug", 2, 60, true),
			{
				ID: "b-pullup", Name: "Pull-ups", Set1Reps: 1, Set2Reps: 1,
				RestOnly: true, BreakSecs: 60, NumSets: 2, SkipProgression: true,
			},
			maxHang("b-big-chisel", "Big Edge - Chisel", 1, 60, true),
			maxHang("b-big-hc", "Big Edge - Half Crimp", 1, 60, true),
			maxHang("b-big-open", "Big Edge - Open", 1, 60, true),
			maxHang("b-small-hc-wu", "Small Edge - Half Crimp", 1, 120, true),
			maxHang("b-chisel", "Chisel", 3, 120, false),
			maxHang("b-hc", "Half Crimp", 3, 120, false),
			maxHang("b-open", "Open", 3, 120, false),
		},
	}
}

// Test is Repeaters with short timers and two reps per set. It stores
// weights under the Repeaters key.
func Test() Program {
	base := Repeaters()
	exercises := make([]Exercise, len(base.Exercises))
	for i, e := range base.Exercises {
		e.PrepSecs, e.HangSecs, e.RestSecs, e.BreakSecs = 3, 2, 1, 5
		e.RepsPerSet = 2
		exercises[i] = e
	}
	return Program{
		ID:        ProgramTest,
		Name:      "Test",
		WeightKey: ProgramRepeaters,
		Hidden:    true,
		Exercises: exercises,
	}
}

// Default returns a registry with the built-in programs.
func Default() *Registry {
	r, err := NewRegistry(Repeaters(), MaxHang(), Test())
	if err != nil {
		panic(err)
	}
	return r
}
