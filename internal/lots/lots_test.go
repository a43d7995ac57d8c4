package lots

func scenarioLots() []Lot {
	return []Lot{
		{LotNumber: "A1", Type: "Ocean", AreaM2: 500, FrontageM: 20, Status: "Available", View: "Ocean", ElevationM: 5},
		{LotNumber: "B2", Type: "Garden", AreaM2: 300, FrontageM: 15, Status: "Sold", View: "Garden", ElevationM: 2},
	}
}

func sampleLots() []Lot {
	return []Lot{
		{LotNumber: "C3", Type: "Oceanfront", AreaM2: 1250, FrontageM: 25, Status: "Available", View: "Ocean", ElevationM: 8},
		{LotNumber: "A1", Type: "Garden", AreaM2: 450, FrontageM: 18, Status: "Sold", View: "Garden", ElevationM: 3},
		{LotNumber: "B2", Type: "Oceanfront", AreaM2: 980, FrontageM: 22, Status: "Reserved", View: "Ocean", ElevationM: 6.5},
		{LotNumber: "D4", Type: "Hillside", AreaM2: 450, FrontageM: 16, Status: "Available", View: "Valley", ElevationM: 21},
		{LotNumber: "E5", Type: "Garden", AreaM2: 610, FrontageM: 19, Status: "Available", View: "Garden", ElevationM: 4},
	}
}

func lotNumbers(view []Lot) []string {
	out := make([]string, len(view))
	for i, l := range view {
		out[i] = l.LotNumber
	}
	return out
}
