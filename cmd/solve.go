/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gobedform/InputParameters"
	"github.com/notargets/gobedform/model_problems/ConvectiveBL"
	"github.com/notargets/gobedform/utils"
)

type SolveRun struct {
	ICFile string
	Points int  // heights of the exported profile
	CSV    bool // profile as CSV on stdout instead of the summary
}

// ProfileRecord is one height of the perturbation profile
type ProfileRecord struct {
	Eta  float64 `csv:"eta"`
	ReU  float64 `csv:"re_U"`
	ImU  float64 `csv:"im_U"`
	ReW  float64 `csv:"re_W"`
	ImW  float64 `csv:"im_W"`
	ReSt float64 `csv:"re_St"`
	ImSt float64 `csv:"im_St"`
	ReSn float64 `csv:"re_Sn"`
	ImSn float64 `csv:"im_Sn"`
}

var exampleFile = `
########################################
Title: "Convective boundary layer"
Eta0: 1.e-5
EtaH: 1
EtaB: 0.5
Fr: 1
Method: DOP853 # Can be RK45
Strategy: Parallel # Can be Batched
########################################
`

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve one case and report the matched boundary layer perturbation",
	Long: `
Integrates the fundamental solutions of the boundary layer, matches the free
atmosphere radiation condition at its top and prints the coefficients, or the
interpolated profile as CSV,

gobedform solve -I case.yaml --csv`,
	Run: func(cmd *cobra.Command, args []string) {
		sr := &SolveRun{
			ICFile: viper.GetString("solve.inputConditionsFile"),
			Points: viper.GetInt("solve.points"),
			CSV:    viper.GetBool("solve.csv"),
		}
		ip := processInput(sr.ICFile)
		if err := RunSolve(sr, ip, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the case parameters like:\n\t- Eta0, EtaH, EtaB, Fr\n\t- Method, Strategy")
	SolveCmd.Flags().IntP("points", "n", 101, "number of heights in the exported profile")
	SolveCmd.Flags().Bool("csv", false, "write the profile as CSV instead of the summary")
	for _, name := range []string{"inputConditionsFile", "points", "csv"} {
		if err := viper.BindPFlag("solve."+name, SolveCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func processInput(icFile string) (ip *InputParameters.CaseParameters) {
	var (
		err  error
		data []byte
	)
	if len(icFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	if data, err = ioutil.ReadFile(icFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.CaseParameters{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func RunSolve(sr *SolveRun, ip *InputParameters.CaseParameters, w io.Writer) (err error) {
	var (
		sol   *ConvectiveBL.Solution
		start = time.Now()
	)
	if !sr.CSV {
		ip.Print(w)
	}
	if sol, err = ip.Solve(); err != nil {
		return
	}
	if sr.CSV {
		return writeProfile(sol, sr.Points, w)
	}
	printSummary(sol, w)
	fmt.Fprintln(w, utils.NewRunStats(start))
	return
}

func printSummary(sol *ConvectiveBL.Solution, w io.Writer) {
	var (
		coeffs = sol.Coefficients()
		stats  = sol.Statistics()
	)
	fmt.Fprintf(w, "Radiation condition: %s, q1 = %v\n", sol.Radiation(), sol.Radiation().Q1())
	for k, c := range coeffs {
		fmt.Fprintf(w, "coeffs[%d] = %12.5e %+12.5ei\n", k, real(c), imag(c))
	}
	fmt.Fprintf(w, "delta = %v, W(etaH) = %v\n", sol.Delta(), sol.TopVerticalVelocity())
	fmt.Fprintf(w, "Condition number = %8.3e, residual = %8.3e\n", sol.Condition(), sol.Residual())
	for slot, st := range stats {
		fmt.Fprintf(w, "Solution %d: %d steps, %d rejected, %d evaluations\n",
			slot+1, st.Steps, st.Rejected, st.Evaluations)
	}
}

func writeProfile(sol *ConvectiveBL.Solution, points int, w io.Writer) (err error) {
	if points < 2 {
		return fmt.Errorf("profile needs at least 2 points, have %d", points)
	}
	var (
		etas    = utils.Linspace(0, sol.MaxZ(), points)
		records = make([]*ProfileRecord, points)
	)
	X, err := sol.AtHeights(etas)
	if err != nil {
		return
	}
	for k, eta := range etas {
		records[k] = &ProfileRecord{
			Eta: eta,
			ReU: real(X.At(ConvectiveBL.IU, k)), ImU: imag(X.At(ConvectiveBL.IU, k)),
			ReW: real(X.At(ConvectiveBL.IW, k)), ImW: imag(X.At(ConvectiveBL.IW, k)),
			ReSt: real(X.At(ConvectiveBL.ISt, k)), ImSt: imag(X.At(ConvectiveBL.ISt, k)),
			ReSn: real(X.At(ConvectiveBL.ISn, k)), ImSn: imag(X.At(ConvectiveBL.ISn, k)),
		}
	}
	return gocsv.Marshal(records, w)
}
