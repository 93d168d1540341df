package main

import "github.com/vignesh-goutham/tradelog/cmd/tradelog"

func main() {
	tradelog.Execute()
}
