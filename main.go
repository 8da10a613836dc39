package main

import "github.com/RyanBlaney/vocal-spectrogram/cmd"

func main() {
	cmd.Execute()
}
