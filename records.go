package replay

import (
	"fmt"
	"slices"
	"sort"
)

// Database names.
const (
	DatabaseMITDB = "mitdb"
	DatabaseAHA   = "aha"
)

// MITDB lists the 48 records of the MIT-BIH Arrhythmia Database.
var MITDB = []string{
	"100", "101", "102", "103", "104", "105", "106", "107", "108", "109", "111", "112",
	"113", "114", "115", "116", "117", "118", "119", "121", "122", "123", "124",
	"200", "201", "202", "203", "205", "207", "208", "209", "210", "212", "213", "214",
	"215", "217", "219", "220", "221", "222", "223", "228", "230", "231", "232", "233", "234",
}

// AHA lists the 69 records of the AHA database test set.
var AHA = []string{
	"1201", "1202", "1203", "1204", "1205", "1206", "1207", "1208", "1209", "1210",
	"2201", "2203", "2204", "2205", "2206", "2207", "2208", "2209", "2210",
	"3201", "3202", "3203", "3204", "3205", "3206", "3207", "3208", "3209", "3210",
	"4201", "4202", "4203", "4204", "4205", "4206", "4207", "4208", "4209", "4210",
	"5201", "5202", "5203", "5204", "5205", "5206", "5207", "5208", "5209", "5210",
	"6201", "6202", "6203", "6204", "6205", "6206", "6207", "6208", "6209", "6210",
	"7201", "7202", "7203", "7204", "7205", "7206", "7207", "7208", "7209", "7210",
}

var databases = map[string][]string{
	DatabaseMITDB: MITDB,
	DatabaseAHA:   AHA,
}

// Databases returns the names of the built-in record sets.
func Databases() []string {
	names := make([]string, 0, len(databases))
	for name := range databases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RecordSet returns a copy of the records of a built-in database.
func RecordSet(database string) ([]string, error) {
	recs, ok := databases[database]
	if !ok {
		return nil, fmt.Errorf("%w: unknown database %q (known: %v)", ErrInvalidConfig, database, Databases())
	}
	return slices.Clone(recs), nil
}
