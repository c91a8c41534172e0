// Command mftkit analyzes an NTFS Master File Table and emits a
// forensic-friendly export in one of several formats. Its flag
// surface and exit-code convention follow analyzeMFT's cli.py, and its
// subcommand/flag wiring style follows the teacher's bin/main.go.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/velocimft/mftkit/anomaly"
	"github.com/velocimft/mftkit/config"
	"github.com/velocimft/mftkit/driver"
	"github.com/velocimft/mftkit/hashpipeline"
	"github.com/velocimft/mftkit/output"
	"github.com/velocimft/mftkit/parser"
	"github.com/velocimft/mftkit/pathresolve"
)

const (
	exitOK            = 0
	exitUsageError    = 2
	exitInputIOError  = 3
	exitOutputIOError = 4
	exitFatalParse    = 5
)

var (
	app = kingpin.New("mftkit", "Analyze an NTFS Master File Table.")

	inputFile  = app.Flag("file", "MFT file to analyze.").Short('f').Required().String()
	outputFile = app.Flag("output", "Output file.").Short('o').Required().String()

	formatCSV      = app.Flag("csv", "Export as CSV (default).").Bool()
	formatJSON     = app.Flag("json", "Export as JSON.").Bool()
	formatXML      = app.Flag("xml", "Export as XML.").Bool()
	formatExcel    = app.Flag("excel", "Export as Excel (CSV variant).").Bool()
	formatBody     = app.Flag("body", "Export as mactime body file.").Bool()
	formatTimeline = app.Flag("timeline", "Export as TSK timeline.").Bool()
	formatSQLite   = app.Flag("sqlite", "Export as SQLite database.").Bool()
	formatTSK      = app.Flag("tsk", "Export as TSK bodyfile.").Bool()
	formatL2T      = app.Flag("l2t", "Export as log2timeline CSV.").Bool()

	computeHashes  = app.Flag("hash", "Compute MD5/SHA256/SHA512/CRC32 over resident $DATA content.").Short('H').Bool()
	chunkSize      = app.Flag("chunk-size", "Chunk size setting; the driver reads and decodes one record at a time regardless of its value.").Default("1000").Int()
	hashProcesses  = app.Flag("hash-processes", "Worker count for hash computation (default: NumCPU).").Int()
	noMultiHash    = app.Flag("no-multiprocessing-hashes", "Disable the hash worker pool (single-threaded).").Bool()

	profileName = app.Flag("profile", "Use a predefined analysis profile (default, quick, forensic, performance).").String()
	configFile  = app.Flag("config", "Load configuration from a JSON/YAML file.").Short('c').String()
	listProfiles = app.Flag("list-profiles", "List available analysis profiles and exit.").Bool()

	verbosity = app.Flag("verbose", "Increase output verbosity (repeatable).").Short('v').Counter()
	debugFlag = app.Flag("debug", "Increase debug output (repeatable).").Short('d').Counter()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	if *listProfiles {
		printProfiles()
		os.Exit(exitOK)
	}

	parser.DebugLevel = *debugFlag

	profile := resolveProfile()
	format := resolveFormat(profile)

	exitCode := run(profile, format)
	os.Exit(exitCode)
}

func printProfiles() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Profile", "Description"})
	for _, p := range config.List() {
		table.Append([]string{p.Name, p.Description})
	}
	table.Render()
}

func resolveProfile() *config.Profile {
	if *configFile != "" {
		p, err := config.LoadFile(*configFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitUsageError)
		}
		return &p
	}
	if *profileName != "" {
		p, ok := config.Get(*profileName)
		if !ok {
			fmt.Fprintf(os.Stderr, "mftkit: unknown profile %q\n", *profileName)
			os.Exit(exitUsageError)
		}
		return &p
	}
	return nil
}

func resolveFormat(profile *config.Profile) string {
	switch {
	case *formatJSON:
		return "json"
	case *formatXML:
		return "xml"
	case *formatExcel:
		return "excel"
	case *formatBody:
		return "body"
	case *formatTimeline:
		return "timeline"
	case *formatSQLite:
		return "sqlite"
	case *formatTSK:
		return "tsk"
	case *formatL2T:
		return "l2t"
	case *formatCSV:
		return "csv"
	}
	if profile != nil && profile.ExportFormat != "" {
		return profile.ExportFormat
	}
	return "csv"
}

func run(profile *config.Profile, format string) int {
	in, err := os.Open(*inputFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputIOError
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitInputIOError
	}

	chunks := *chunkSize
	doHash := *computeHashes
	if profile != nil {
		if chunks == 1000 && profile.ChunkSize != 0 {
			chunks = profile.ChunkSize
		}
		if !doHash && profile.ComputeHashes {
			doHash = true
		}
	}

	opts := parser.DefaultOptions()
	drv := driver.New(opts, chunks)

	var allRows []output.Row
	records := make(map[uint64]*parser.Record)
	pathSource := pathresolve.MapSource{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var hashJobs []hashpipeline.Job

	summary, recordErrors, err := drv.Run(ctx, in, st.Size(), func(res driver.Result) error {
		rec := res.Record
		records[rec.RecordNumber] = rec

		fileNames := rec.AttrsOfType(parser.AttrFileName)
		var parentNum uint64
		var parentSeq uint16
		if len(fileNames) > 0 {
			if fn, ok := fileNames[0].Payload.(*parser.FileName); ok {
				parentNum = fn.ParentRecordNumber
				parentSeq = fn.ParentSequence
			}
		}
		name := ""
		if fn := preferredName(fileNames); fn != nil {
			name = fn.Name
		}
		pathSource[rec.RecordNumber] = pathresolve.Entry{
			Name:            name,
			ParentRecordNum: parentNum,
			ParentSequence:  parentSeq,
			SequenceNumber:  rec.SequenceNumber,
			Active:          rec.Flags.InUse(),
			Found:           true,
		}

		if doHash {
			if data := rec.Attr(parser.AttrData); data != nil && data.Resident {
				hashJobs = append(hashJobs, hashpipeline.Job{RecordNumber: rec.RecordNumber, Content: data.Content})
			}
		}

		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFatalParse
	}

	var digests map[uint64]hashpipeline.Digest
	if doHash {
		pipeline := resolveHashPipeline()
		digests, err = pipeline.Run(ctx, hashJobs)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitFatalParse
		}
	}

	resolver := pathresolve.New(pathSource)

	recordNumbers := make([]uint64, 0, len(records))
	for recordNumber := range records {
		recordNumbers = append(recordNumbers, recordNumber)
	}
	sort.Slice(recordNumbers, func(i, j int) bool { return recordNumbers[i] < recordNumbers[j] })

	for _, recordNumber := range recordNumbers {
		rec := records[recordNumber]
		fullPath := resolver.Resolve(recordNumber)
		notes := anomaly.Check(rec, func(parentRecordNumber uint64) (bool, bool, bool) {
			entry := pathSource.Lookup(parentRecordNumber)
			if !entry.Found {
				return false, false, false
			}
			parentRec, ok := records[parentRecordNumber]
			if !ok {
				return entry.Active, false, true
			}
			return entry.Active, parentRec.Flags.IsDirectory(), true
		})

		if note, ok := pathresolve.NoteForPath(fullPath); ok {
			notes = append(notes, note)
		}
		if rec.Incomplete {
			notes = append(notes, "MissingExtension")
		}
		for _, attr := range rec.Attributes {
			if attr.RunLengthMismatch {
				notes = append(notes, "MalformedDataRun")
				break
			}
		}

		var digest *hashpipeline.Digest
		if d, ok := digests[recordNumber]; ok {
			digest = &d
		}

		allRows = append(allRows, output.FromRecord(rec, fullPath, notes, digest)...)
	}

	if err := writeOutput(format, allRows); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitOutputIOError
	}

	printSummary(summary, recordErrors)
	return exitOK
}

func preferredName(attrs []*parser.Attribute) *parser.FileName {
	rank := map[parser.FileNameNamespace]int{
		parser.NamespaceWin32AndDOS: 0,
		parser.NamespaceWin32:       1,
		parser.NamespacePOSIX:       2,
		parser.NamespaceDOS:         3,
	}
	var best *parser.FileName
	bestRank := len(rank) + 1
	for _, attr := range attrs {
		fn, ok := attr.Payload.(*parser.FileName)
		if !ok {
			continue
		}
		r, known := rank[fn.Namespace]
		if !known {
			r = len(rank)
		}
		if r < bestRank {
			bestRank, best = r, fn
		}
	}
	return best
}

func resolveHashPipeline() *hashpipeline.Pipeline {
	if *noMultiHash {
		return hashpipeline.NewWithWorkers(1)
	}
	if *hashProcesses > 0 {
		return hashpipeline.NewWithWorkers(*hashProcesses)
	}
	return hashpipeline.New()
}

func writeOutput(format string, rows []output.Row) error {
	if format == "sqlite" {
		return output.WriteSQLite(*outputFile, rows)
	}

	out, err := os.Create(*outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case "json":
		return output.WriteJSON(out, rows)
	case "xml":
		return output.WriteXML(out, rows)
	case "excel":
		return output.WriteExcelCSV(out, rows)
	case "body":
		return output.WriteBody(out, rows)
	case "tsk":
		return output.WriteTSK(out, rows)
	case "timeline":
		return output.WriteTimeline(out, rows)
	case "l2t":
		return output.WriteL2T(out, rows)
	default:
		return output.WriteCSV(out, rows)
	}
}

func printSummary(summary *driver.Summary, recordErrors []driver.RecordError) {
	if *verbosity == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stderr)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Total", fmt.Sprint(summary.Total)})
	table.Append([]string{"Active", fmt.Sprint(summary.Active)})
	table.Append([]string{"Directory", fmt.Sprint(summary.Directory)})
	table.Append([]string{"Errors", fmt.Sprint(summary.Errors)})
	table.Render()

	if *verbosity > 1 {
		for _, e := range recordErrors {
			fmt.Fprintf(os.Stderr, "record %d: %s: %s\n", e.RecordNumber, e.Kind, e.Message)
		}
	}
}
