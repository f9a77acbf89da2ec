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
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gobedform/InputParameters"
	"github.com/notargets/gobedform/utils"
)

type StreamRun struct {
	ICFile string
	Kxi    float64 // bed amplitude times wavenumber
	Nx     int     // phases over one wavelength
	Nz     int     // heights above the boundary layer
	Top    float64 // highest height, in units of EtaH
}

type StreamRecord struct {
	Eta float64 `csv:"eta"`
	Kx  float64 `csv:"kx"`
	Psi float64 `csv:"psi"`
}

// StreamCmd represents the stream command
var StreamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Stream function of the free atmosphere above the boundary layer",
	Long: `
Solves one case and writes the free atmosphere stream function on a grid of
heights and phases as CSV,

gobedform stream -I case.yaml --kxi 0.05 --nx 64`,
	Run: func(cmd *cobra.Command, args []string) {
		sr := &StreamRun{
			ICFile: viper.GetString("stream.inputConditionsFile"),
			Kxi:    viper.GetFloat64("stream.kxi"),
			Nx:     viper.GetInt("stream.nx"),
			Nz:     viper.GetInt("stream.nz"),
			Top:    viper.GetFloat64("stream.top"),
		}
		ip := processInput(sr.ICFile)
		if err := RunStream(sr, ip, os.Stdout); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(StreamCmd)
	StreamCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for the case parameters")
	StreamCmd.Flags().Float64("kxi", 0.01, "bed amplitude in units of the inverse wavenumber")
	StreamCmd.Flags().Int("nx", 64, "number of phases over one wavelength")
	StreamCmd.Flags().Int("nz", 21, "number of heights above the boundary layer")
	StreamCmd.Flags().Float64("top", 2, "highest height of the grid, in units of EtaH")
	for _, name := range []string{"inputConditionsFile", "kxi", "nx", "nz", "top"} {
		if err := viper.BindPFlag("stream."+name, StreamCmd.Flags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

func RunStream(sr *StreamRun, ip *InputParameters.CaseParameters, w io.Writer) (err error) {
	if sr.Nx < 1 || sr.Nz < 2 || !(sr.Top > 1) {
		return fmt.Errorf("invalid stream grid: nx = %d, nz = %d, top = %g", sr.Nx, sr.Nz, sr.Top)
	}
	sol, err := ip.Solve()
	if err != nil {
		return
	}
	var (
		etaH  = sol.Parameters().EtaH
		etaFA = utils.Linspace(etaH, sr.Top*etaH, sr.Nz)
		kx    = make([]float64, sr.Nx)
	)
	for j := range kx {
		kx[j] = 2 * math.Pi * float64(j) / float64(sr.Nx)
	}
	psi, err := sol.StreamFunctionFA(etaFA, kx, sr.Kxi)
	if err != nil {
		return
	}
	records := make([]*StreamRecord, 0, sr.Nz*sr.Nx)
	for i, eta := range etaFA {
		for j, phase := range kx {
			records = append(records, &StreamRecord{Eta: eta, Kx: phase, Psi: psi.At(i, j)})
		}
	}
	return gocsv.Marshal(records, w)
}
