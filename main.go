// main.go --  This file is part of goPW project.
// goPW authors, 2026
//
//	goPW is distributed in the hope that it will be useful,
//	but WITHOUT ANY WARRANTY; without even the implied warranty
//	of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//	See the GNU General Public License for more details.
//
//	You should have received a copy of the GNU General Public License
//	along with this program.  If not, see http://www.gnu.org/licenses/
//
// ------------------------------------------------
package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	WarningLogger *log.Logger = log.New(os.Stderr, "WARNING: ", log.Ldate|log.Ltime)
	InfoLogger    *log.Logger = log.New(os.Stderr, "INFO: ", log.Ldate|log.Ltime)
	ErrorLogger   *log.Logger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger  *log.Logger = log.New(os.Stderr, "", 0)
)

func initLog(fname string) {
	file, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Fatal(err)
	}

	InfoLogger = log.New(file, "INFO: ", log.Ldate|log.Ltime)
	WarningLogger = log.New(file, "WARNING: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	OutputLogger = log.New(file, "", 0)
}

func appInfo() {
	OutputLogger.Print("\n              ____  __      __  |\n" +
		"   __     ___|  _ \\ \\ \\ /\\ / /  | goPW: plane-wave reciprocal-space engine\n" +
		" /'_ `\\  / __| |_) | \\ V  V /   | G-vector enumeration, shells and\n" +
		"/\\ \\L\\ \\/\\ \\_|  __/   \\_/\\_/    | distribution tables\n" +
		"\\ \\____ \\ \\__|_|                |\n" +
		" \\/___L\\ \\/__/                  | PW stands for Plane Waves\n" +
		"   /\\____/                      | Have Fun!!!\n" +
		"   \\_/__/                       |\n\n")
}

func printOutputDelimiter() {
	OutputLogger.Println(strings.Repeat("-", 70))
}

// EngineInput collects everything the G-vector build needs from the input
// file.
type EngineInput struct {
	Lat      *Lattice
	VK       Vector3
	Cutoff   float64
	GridSize [3]int // all zero means: derive the grid from the cutoff
	Ranks    int
	FFTRanks int
	Reduce   bool
}

func processInput(data []string) EngineInput {
	inp := EngineInput{Ranks: 1, FFTRanks: 1}
	var lattice bool
	for i := 0; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) == 0 {
			continue
		}
		switch strings.ToLower(words[0]) {
		case "lattice":
			lattice = true
			lat_start := i
			lat_end := findBlockEnd(i, data, "Lattice")
			OutputLogger.Print("Parsing input. Lattice block found at lines ", lat_start, " -- ", lat_end, ".")
			inp.Lat = &Lattice{}
			if err := inp.Lat.addVectors(data, lat_start+1, lat_end-1); err != nil {
				ErrorLogger.Fatal("Parsing input. Bad Lattice block: ", err)
			}
		case "kpoint":
			if len(words) < 4 {
				ErrorLogger.Fatal("Parsing input. Kpoint needs 3 components.")
			}
			for k := 0; k < 3; k++ {
				inp.VK[k], _ = strconv.ParseFloat(words[k+1], 64)
			}
			OutputLogger.Print("Parsing input. K-point set to ", inp.VK, ".")
		case "cutoff":
			if len(words) < 2 {
				ErrorLogger.Fatal("Parsing input. Cutoff needs a value.")
			}
			inp.Cutoff, _ = strconv.ParseFloat(words[1], 64)
			OutputLogger.Print("Parsing input. Cutoff set to " + words[1] + ".")
		case "grid":
			if len(words) < 4 {
				ErrorLogger.Fatal("Parsing input. Grid needs 3 sizes.")
			}
			for k := 0; k < 3; k++ {
				inp.GridSize[k], _ = strconv.Atoi(words[k+1])
			}
			OutputLogger.Print("Parsing input. FFT grid set to ", inp.GridSize, ".")
		case "ranks":
			inp.Ranks, _ = strconv.Atoi(words[1])
			OutputLogger.Print("Parsing input. Number of ranks set to " + words[1] + ".")
		case "fftranks":
			inp.FFTRanks, _ = strconv.Atoi(words[1])
			OutputLogger.Print("Parsing input. FFT group size set to " + words[1] + ".")
		case "reduce":
			inp.Reduce = true
			OutputLogger.Print("Parsing input. G-vectors reduced by inversion symmetry.")
		case "nprocs":
			nprocs, _ := strconv.Atoi(words[1])
			runtime.GOMAXPROCS(nprocs)
			OutputLogger.Print("Parsing input. Number of threads set to " + words[1] + ".")
		}
	}
	if !lattice {
		ErrorLogger.Fatal("Parsing input. No Lattice found.")
	}
	if inp.Cutoff <= 0 {
		ErrorLogger.Fatal("Parsing input. No positive Cutoff found.")
	}
	return inp
}

func findBlockEnd(n int, data []string, bname string) int {
	for i := n; i < len(data); i++ {
		words := strings.Fields(data[i])
		if len(words) > 0 {
			if strings.ToLower(words[0]) == "end" {
				return i
			}
		}
	}
	ErrorLogger.Fatal("No end of block " + bname + ".")
	return 0
}

func buildGrid(inp EngineInput) *FFTGrid {
	if inp.GridSize != [3]int{} {
		grid, err := NewFFTGrid(inp.GridSize[0], inp.GridSize[1], inp.GridSize[2])
		if err != nil {
			ErrorLogger.Fatal("Cannot build FFT grid: ", err)
		}
		return grid
	}
	grid, err := GridForCutoff(inp.Cutoff, inp.Lat)
	if err != nil {
		ErrorLogger.Fatal("Cannot build FFT grid from cutoff: ", err)
	}
	return grid
}

func reportGvec(gv *Gvec, inp EngineInput) {
	printOutputDelimiter()
	OutputLogger.Println("Direct lattice vectors (rows):")
	OutputLogger.Println(SprintDense(inp.Lat.AVec))
	OutputLogger.Println("Reciprocal lattice vectors (rows):")
	OutputLogger.Println(SprintDense(inp.Lat.BVec))
	OutputLogger.Println("Unit cell volume: ", inp.Lat.Omega)
	printOutputDelimiter()

	OutputLogger.Println("Total number of G-vectors: ", gv.NumGvec())
	OutputLogger.Println("Number of z-columns: ", gv.NumZcol())
	OutputLogger.Println("Number of G-shells: ", gv.NumShells())
	nsh := gv.NumShells()
	if nsh > 8 {
		nsh = 8
	}
	for igs := 0; igs < nsh; igs++ {
		OutputLogger.Printf("  shell %3d  |G+k| = %.10f", igs, gv.ShellLen(igs))
	}
	printOutputDelimiter()

	OutputLogger.Println("Fine-grained distribution over ", inp.Ranks, " ranks:")
	for rank := 0; rank < inp.Ranks; rank++ {
		OutputLogger.Printf("  rank %4d  zcols %6d  gvecs %8d  offset %8d",
			rank, gv.ZcolCount(rank), gv.GvecCount(rank), gv.GvecOffset(rank))
	}
	counts := intsAsFloats(gv.gvecDistr.counts)
	OutputLogger.Printf("  G-vectors per rank: mean %.1f  min %d  max %d",
		stat.Mean(counts, nil), int(floats.Min(counts)), int(floats.Max(counts)))
	printOutputDelimiter()

	OutputLogger.Println("FFT distribution over ", inp.FFTRanks, " FFT ranks:")
	for rank := 0; rank < inp.FFTRanks; rank++ {
		OutputLogger.Printf("  fft rank %4d  gvecs %8d  offset %8d",
			rank, gv.gvecDistrFFT.counts[rank], gv.gvecDistrFFT.offsets[rank])
	}
	slab := gv.GvecFFTSlab()
	OutputLogger.Println("FFT slab of fft rank 0 (per contributing rank):")
	for i := range slab.counts {
		OutputLogger.Printf("  contributor %4d  gvecs %8d  offset %8d", i, slab.counts[i], slab.offsets[i])
	}
	printOutputDelimiter()

	weights, err := MixerWeights(gv, 0)
	if err != nil {
		ErrorLogger.Fatal("Cannot build mixer weights: ", err)
	}
	OutputLogger.Printf("Mixer weights on rank 0: %d values, sum %.6f", len(weights), floats.Sum(weights))
}

func main() {
	runtime.GOMAXPROCS(1)

	var inpFname, outFname string
	if len(os.Args) > 1 {
		inpFname = os.Args[1]
		split_inpFname := strings.Split(inpFname, ".")
		fExt := split_inpFname[len(split_inpFname)-1]
		outFname = inpFname[0:(len(inpFname)-len(fExt))] + "out"
		fmt.Println("Output file: ", outFname)
	} else {
		log.Fatal("No input file.")
	}

	initLog(outFname)

	InfoLogger.Println("Starting goPW...")
	appInfo()
	WarningLogger.Println("This is an experimental program on an early stage of development.")
	OutputLogger.Print("\n\n")

	OutputLogger.Println("Input file content:")
	printOutputDelimiter()
	inpData, err := ReadFileLines(inpFname)
	if err != nil {
		ErrorLogger.Println("Cannot read input file: ", err)
	}
	for _, i := range inpData {
		OutputLogger.Println(i)
	}
	printOutputDelimiter()

	inp := processInput(inpData)

	grid := buildGrid(inp)
	OutputLogger.Println("FFT grid: ", grid.Size(0), "x", grid.Size(1), "x", grid.Size(2),
		" (", grid.NumPoints(), " points)")

	fftComm := NewGroupComm(inp.FFTRanks, 0)
	gv, err := NewGvec(inp.VK, inp.Lat, inp.Cutoff, grid, inp.Ranks, fftComm, inp.Reduce)
	if err != nil {
		ErrorLogger.Fatal("Cannot build G-vector set: ", err)
	}

	reportGvec(gv, inp)

	MyMemDebug()

	OutputLogger.Print("\n\n")
	InfoLogger.Println("Exiting goPW...")
	fmt.Println("goPW done.")
}
