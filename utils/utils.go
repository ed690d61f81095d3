package utils

import (
	"fmt"
	"os"
	"strings"
)

// Commands understood by the CLI
var Commands = []string{"compare", "plot", "history"}

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	return ParseArgumentsFrom(os.Args[1:])
}

// ParseArgumentsFrom parses the given arguments (without the program name).
// The first known command word is stored under "command"; --key=value and
// --key value pairs become entries, and a flag without a value is "true".
func ParseArgumentsFrom(argv []string) map[string]string {
	args := make(map[string]string)

	commandIndex := -1
	for i, arg := range argv {
		if isCommand(arg) {
			args["command"] = arg
			commandIndex = i
			break
		}
	}

	for i := 0; i < len(argv); i++ {
		if i == commandIndex {
			continue
		}

		arg := argv[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			if i+1 >= len(argv) || strings.HasPrefix(argv[i+1], "--") || i+1 == commandIndex {
				args[flagName] = "true"
			} else {
				args[flagName] = argv[i+1]
				i++
			}
		}
	}

	return args
}

func isCommand(arg string) bool {
	for _, c := range Commands {
		if arg == c {
			return true
		}
	}
	return false
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	name := os.Args[0]
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s compare --folder=PATH --mine=PATH [--output=PATH] [--model=PATH | --model-repo=NAME] [--database=PATH] [--debug]\n", name)
	fmt.Printf("  %s plot [--csv-folder=PATH] [--margin=VALUE] [--font=PATH] [--show=false] [--debug]\n", name)
	fmt.Printf("  %s history --database=PATH [--limit=N | --run=ID]\n", name)
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --folder      : Folder of student handwriting samples to rank\n")
	fmt.Printf("  --mine        : Folder of your own handwriting images\n")
	fmt.Printf("  --output      : Result table path (default: excel/results.csv)\n")
	fmt.Printf("  --model       : LPIPS network exported to ONNX\n")
	fmt.Printf("  --model-repo  : Hugging Face repository to download the ONNX model from\n")
	fmt.Printf("  --model-file  : ONNX file inside the repository (default: lpips_alex.onnx)\n")
	fmt.Printf("  --model-dir   : Download folder for models (default: ./models)\n")
	fmt.Printf("  --lpips-size  : Square input size of the LPIPS network (default: 224)\n")
	fmt.Printf("  --ssim-size   : Square size images are resized to for SSIM (default: 128)\n")
	fmt.Printf("  --normalize   : Feed LPIPS pixels in [-1,1] instead of [0,1]\n")
	fmt.Printf("  --database    : Archive runs in this sqlite database\n")
	fmt.Printf("  --csv-folder  : Folder of result tables to plot (default: excel)\n")
	fmt.Printf("  --margin      : Axis padding around the plotted points (default: 0.02)\n")
	fmt.Printf("  --font        : TrueType font for chart text\n")
	fmt.Printf("  --width       : Chart width in pixels (default: 1200)\n")
	fmt.Printf("  --height      : Chart height in pixels (default: 600)\n")
	fmt.Printf("  --dpi         : Chart DPI (default: 100)\n")
	fmt.Printf("  --show        : Open each chart after saving it (default: true)\n")
	fmt.Printf("  --limit       : Number of runs listed by history (default: 20)\n")
	fmt.Printf("  --run         : Show the ranked rows of one archived run\n")
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Specify custom log file path (default: handcompare.log)\n")
	fmt.Printf("\nEvery parameter can also be set as HANDCOMPARE_<NAME> in the environment or a .env file.\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s compare --folder=./9673 --mine=./mine --model=./models/lpips_alex.onnx\n", name)
	fmt.Printf("  %s plot --csv-folder=./excel --show=false\n", name)
}
