// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtarasov/projmap/internal/build"
	"github.com/mtarasov/projmap/internal/classify"
	"github.com/mtarasov/projmap/internal/config"
	"github.com/mtarasov/projmap/internal/projection"
	"github.com/mtarasov/projmap/internal/scan"
	"github.com/mtarasov/projmap/internal/services/clipboard"
	"github.com/mtarasov/projmap/internal/tokenizer"
	"github.com/mtarasov/projmap/internal/types"
	"github.com/mtarasov/projmap/internal/utils"
)

const (
	excludeDirFlagName     = "exclude-dir"
	excludeDirFlagShort    = "e"
	excludePatternFlagName = "exclude"
	sniffBytesFlagName     = "sniff-bytes"
	formatFlagName         = "format"
	tokensFlagName         = "tokens"
	modelFlagName          = "model"
	copyFlagName           = "copy"
	logFlagName            = "log"
	configFlagName         = "config"
	versionFlagName        = "version"
	filterFlagName         = "filter"
	extensionsFlagName     = "ext"
	depthFlagName          = "depth"
	showExcludedFlagName   = "show-excluded"
	countsFlagName         = "counts"
	noDefaultsFlagName     = "no-default-excludes"

	versionTemplate      = "projmap version: %s\n"
	defaultPath          = "."
	rootUse              = "projmap"
	rootShortDescription = "projmap command line interface"
	rootLongDescription  = `projmap scans a project directory and derives three artifacts from one walk:
a concatenated blob of every text file, a structured metadata document of the
whole tree, and an ASCII rendering of a filterable tree view.
Use --format to select raw, json, or xml output where supported.`

	pathArgumentsSuffix       = " [paths...]"
	structureUse              = types.CommandStructure + pathArgumentsSuffix
	concatUse                 = types.CommandConcat + pathArgumentsSuffix
	treeUse                   = types.CommandTree + pathArgumentsSuffix
	structureAlias            = "s"
	concatAlias               = "c"
	treeAlias                 = "t"
	structureShortDescription = "emit the project structure document (" + structureAlias + ")"
	concatShortDescription    = "concatenate text file contents (" + concatAlias + ")"
	treeShortDescription      = "render the directory tree (" + treeAlias + ")"

	// structureUsageExample demonstrates structure command usage.
	structureUsageExample = `  # Structure document for the current project
  projmap structure .

  # XML variant, excluding a build directory
  projmap structure --format xml -e build .`

	// concatUsageExample demonstrates concat command usage.
	concatUsageExample = `  # Concatenate all text files under the current directory
  projmap concat .

  # Count tokens and copy the blob to the clipboard
  projmap concat --tokens --copy .`

	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Full tree with per-directory file counts
  projmap tree --counts .

  # Only Python files, two levels deep
  projmap tree --ext .py --depth 2 .`

	versionFlagDescription        = "display application version"
	excludeDirFlagDescription     = "directory name to exclude (repeatable)"
	excludePatternFlagDescription = "file glob to exclude, e.g. '*.log' (repeatable)"
	sniffBytesFlagDescription     = "bytes inspected for binary detection"
	formatFlagDescription         = "output format"
	tokensFlagDescription         = "include token counts"
	modelFlagDescription          = "tokenizer model to use for token counting"
	copyFlagDescription           = "copy the rendered artifact to the clipboard"
	logFlagDescription            = "emit the scan processing log instead of the artifact"
	configFlagDescription         = "path to a configuration file"
	filterFlagDescription         = "case-insensitive name substring filter"
	extensionsFlagDescription     = "extension filter set, e.g. .go,.py"
	depthFlagDescription          = "expand directories up to this depth (0 = all)"
	showExcludedFlagDescription   = "show excluded entries in the tree"
	countsFlagDescription         = "annotate directories with recursive file counts"
	noDefaultsFlagDescription     = "disable the built-in directory exclusion set"

	invalidFormatMessage = "invalid format value '%s'"
	// errorPathMissingFormat reports a missing input path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorNotDirectoryFormat reports a path that cannot be scanned.
	errorNotDirectoryFormat = "path '%s' is not a directory"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"

	cancelledMessage    = "scan cancelled, result is partial"
	copiedMessage       = "artifact copied to clipboard"
	tokenSummaryMessage = "token count"
)

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

// Execute runs the projmap application.
func Execute(logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	rootCommand := createRootCommand(logger)
	return rootCommand.ExecuteContext(ctx)
}

// scanFlags carries the flag values shared by every scanning command.
type scanFlags struct {
	excludeDirs       []string
	excludePatterns   []string
	sniffBytes        int
	noDefaultExcludes bool
	configPath        string
	copyToClipboard   bool
}

func (flags *scanFlags) register(command *cobra.Command) {
	command.Flags().StringArrayVarP(&flags.excludeDirs, excludeDirFlagName, excludeDirFlagShort, nil, excludeDirFlagDescription)
	command.Flags().StringArrayVar(&flags.excludePatterns, excludePatternFlagName, nil, excludePatternFlagDescription)
	command.Flags().IntVar(&flags.sniffBytes, sniffBytesFlagName, 0, sniffBytesFlagDescription)
	command.Flags().BoolVar(&flags.noDefaultExcludes, noDefaultsFlagName, false, noDefaultsFlagDescription)
	command.Flags().StringVar(&flags.configPath, configFlagName, "", configFlagDescription)
	command.Flags().BoolVar(&flags.copyToClipboard, copyFlagName, false, copyFlagDescription)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(newStructureCommand(logger))
	rootCommand.AddCommand(newConcatCommand(logger))
	rootCommand.AddCommand(newTreeCommand(logger))
	return rootCommand
}

// newStructureCommand builds the structure subcommand.
func newStructureCommand(logger *zap.Logger) *cobra.Command {
	var flags scanFlags
	var formatValue string

	structureCommand := &cobra.Command{
		Use:     structureUse,
		Aliases: []string{structureAlias},
		Short:   structureShortDescription,
		Example: structureUsageExample,
		RunE: func(command *cobra.Command, arguments []string) error {
			classifierConfig, applicationConfig, configError := resolveClassifierConfig(&flags)
			if configError != nil {
				return configError
			}
			formatValue = resolveStructureFormat(command, applicationConfig.Scan.Format, formatValue)
			if !isSupportedFormat(formatValue) {
				return fmt.Errorf(invalidFormatMessage, formatValue)
			}
			validatedPaths, validationError := resolveAndValidatePaths(defaultedPaths(arguments))
			if validationError != nil {
				return validationError
			}

			walker := scan.NewWalker(classifierConfig)
			var rendered string
			for _, pathInformation := range validatedPaths {
				result, scanError := walker.Scan(command.Context(), pathInformation.AbsolutePath)
				if scanError != nil {
					return scanError
				}
				reportScanOutcome(logger, result)
				document, renderError := renderStructure(result.Root, formatValue)
				if renderError != nil {
					return renderError
				}
				rendered += document + "\n"
			}
			fmt.Print(rendered)
			return copyIfRequested(logger, resolveCopyPreference(command, flags.copyToClipboard, applicationConfig.Scan.Clipboard), rendered)
		},
	}
	flags.register(structureCommand)
	structureCommand.Flags().StringVar(&formatValue, formatFlagName, types.FormatJSON, formatFlagDescription)
	return structureCommand
}

// newConcatCommand builds the concat subcommand.
func newConcatCommand(logger *zap.Logger) *cobra.Command {
	var flags scanFlags
	var includeTokens bool
	var modelName string
	var emitLog bool

	concatCommand := &cobra.Command{
		Use:     concatUse,
		Aliases: []string{concatAlias},
		Short:   concatShortDescription,
		Example: concatUsageExample,
		RunE: func(command *cobra.Command, arguments []string) error {
			classifierConfig, applicationConfig, configError := resolveClassifierConfig(&flags)
			if configError != nil {
				return configError
			}
			includeTokens, modelName = resolveTokenSettings(command, applicationConfig.Scan.Tokens, includeTokens, modelName)
			validatedPaths, validationError := resolveAndValidatePaths(defaultedPaths(arguments))
			if validationError != nil {
				return validationError
			}

			walker := scan.NewWalker(classifierConfig)
			var rendered string
			for _, pathInformation := range validatedPaths {
				result, scanError := walker.Scan(command.Context(), pathInformation.AbsolutePath)
				if scanError != nil {
					return scanError
				}
				reportScanOutcome(logger, result)
				if emitLog {
					rendered += build.RenderScanLog(result)
				} else {
					rendered += build.RenderConcatenation(result.Records)
				}
				if includeTokens {
					if tokenError := reportTokenCounts(logger, modelName, result.Records); tokenError != nil {
						return tokenError
					}
				}
			}
			fmt.Print(rendered)
			return copyIfRequested(logger, resolveCopyPreference(command, flags.copyToClipboard, applicationConfig.Scan.Clipboard), rendered)
		},
	}
	flags.register(concatCommand)
	concatCommand.Flags().BoolVar(&includeTokens, tokensFlagName, false, tokensFlagDescription)
	concatCommand.Flags().StringVar(&modelName, modelFlagName, "", modelFlagDescription)
	concatCommand.Flags().BoolVar(&emitLog, logFlagName, false, logFlagDescription)
	return concatCommand
}

// newTreeCommand builds the tree subcommand.
func newTreeCommand(logger *zap.Logger) *cobra.Command {
	var flags scanFlags
	var nameFilter string
	var extensionList []string
	var expandDepth int
	var showExcluded bool
	var showCounts bool

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Example: treeUsageExample,
		RunE: func(command *cobra.Command, arguments []string) error {
			classifierConfig, applicationConfig, configError := resolveClassifierConfig(&flags)
			if configError != nil {
				return configError
			}
			projectionOptions := resolveProjectionOptions(applicationConfig.Tree, command, expandDepth, showExcluded, showCounts)

			validatedPaths, validationError := resolveAndValidatePaths(defaultedPaths(arguments))
			if validationError != nil {
				return validationError
			}

			walker := scan.NewWalker(classifierConfig)
			var rendered string
			for _, pathInformation := range validatedPaths {
				result, scanError := walker.Scan(command.Context(), pathInformation.AbsolutePath)
				if scanError != nil {
					return scanError
				}
				reportScanOutcome(logger, result)
				view := projection.New(result.Root, projectionOptions)
				view.SetFilter(nameFilter, extensionList)
				rendered += view.RenderASCII()
			}
			fmt.Print(rendered)
			return copyIfRequested(logger, resolveCopyPreference(command, flags.copyToClipboard, applicationConfig.Tree.Clipboard), rendered)
		},
	}
	flags.register(treeCommand)
	treeCommand.Flags().StringVar(&nameFilter, filterFlagName, "", filterFlagDescription)
	treeCommand.Flags().StringSliceVar(&extensionList, extensionsFlagName, nil, extensionsFlagDescription)
	treeCommand.Flags().IntVar(&expandDepth, depthFlagName, 0, depthFlagDescription)
	treeCommand.Flags().BoolVar(&showExcluded, showExcludedFlagName, false, showExcludedFlagDescription)
	treeCommand.Flags().BoolVar(&showCounts, countsFlagName, false, countsFlagDescription)
	return treeCommand
}

// resolveClassifierConfig merges configuration file defaults and command
// flags into the classifier configuration for this invocation. The loaded
// application configuration is returned alongside so commands can consult
// their own defaults without a second load.
func resolveClassifierConfig(flags *scanFlags) (classify.Config, config.ApplicationConfiguration, error) {
	applicationConfig, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: flags.configPath})
	if loadError != nil {
		return classify.Config{}, config.ApplicationConfiguration{}, loadError
	}

	classifierConfig := classify.Config{SniffLength: classify.DefaultSniffLength}
	if !flags.noDefaultExcludes {
		classifierConfig.ExcludedDirectories = append(classifierConfig.ExcludedDirectories, classify.DefaultExcludedDirectories...)
	}
	classifierConfig.ExcludedDirectories = append(classifierConfig.ExcludedDirectories, applicationConfig.Scan.ExcludeDirs...)
	classifierConfig.ExcludedDirectories = append(classifierConfig.ExcludedDirectories, flags.excludeDirs...)
	classifierConfig.ExcludedDirectories = utils.DeduplicatePatterns(classifierConfig.ExcludedDirectories)

	classifierConfig.ExcludePatterns = append(classifierConfig.ExcludePatterns, applicationConfig.Scan.ExcludePatterns...)
	classifierConfig.ExcludePatterns = append(classifierConfig.ExcludePatterns, flags.excludePatterns...)
	classifierConfig.ExcludePatterns = utils.DeduplicatePatterns(classifierConfig.ExcludePatterns)

	if applicationConfig.Scan.BinarySniffBytes > 0 {
		classifierConfig.SniffLength = applicationConfig.Scan.BinarySniffBytes
	}
	if flags.sniffBytes > 0 {
		classifierConfig.SniffLength = flags.sniffBytes
	}
	return classifierConfig, applicationConfig, nil
}

// resolveTokenSettings applies token-counting defaults from the
// configuration file when the corresponding flags were left untouched.
func resolveTokenSettings(command *cobra.Command, tokenConfig config.TokenConfiguration, includeTokens bool, modelName string) (bool, string) {
	if !command.Flags().Changed(tokensFlagName) && tokenConfig.Enabled != nil {
		includeTokens = *tokenConfig.Enabled
	}
	if !command.Flags().Changed(modelFlagName) && tokenConfig.Model != "" {
		modelName = tokenConfig.Model
	}
	return includeTokens, modelName
}

// resolveCopyPreference picks between the --copy flag and the configured
// clipboard default. An explicit flag always wins.
func resolveCopyPreference(command *cobra.Command, copyFromFlag bool, configuredDefault *bool) bool {
	if command.Flags().Changed(copyFlagName) {
		return copyFromFlag
	}
	if configuredDefault != nil {
		return *configuredDefault
	}
	return copyFromFlag
}

// resolveStructureFormat substitutes the configured format when --format was
// not given on the command line.
func resolveStructureFormat(command *cobra.Command, configuredFormat string, formatValue string) string {
	if !command.Flags().Changed(formatFlagName) && configuredFormat != "" {
		return configuredFormat
	}
	return formatValue
}

// resolveProjectionOptions combines tree configuration defaults with explicit
// flag values; a flag set on the command line always wins.
func resolveProjectionOptions(treeConfig config.TreeConfiguration, command *cobra.Command, expandDepth int, showExcluded bool, showCounts bool) projection.Options {
	options := projection.Options{DefaultExpandDepth: projection.ExpandAllDepth}
	if treeConfig.ExpandDepth != nil && *treeConfig.ExpandDepth > 0 {
		options.DefaultExpandDepth = *treeConfig.ExpandDepth
	}
	if treeConfig.ShowExcluded != nil {
		options.ShowExcluded = *treeConfig.ShowExcluded
	}
	if treeConfig.ShowCounts != nil {
		options.ShowCounts = *treeConfig.ShowCounts
	}
	if command.Flags().Changed(depthFlagName) {
		// 0 means expand everything, overriding any configured depth.
		if expandDepth > 0 {
			options.DefaultExpandDepth = expandDepth
		} else {
			options.DefaultExpandDepth = projection.ExpandAllDepth
		}
	}
	if command.Flags().Changed(showExcludedFlagName) {
		options.ShowExcluded = showExcluded
	}
	if command.Flags().Changed(countsFlagName) {
		options.ShowCounts = showCounts
	}
	return options
}

// renderStructure serializes the node graph in the requested format. The raw
// format renders a fully expanded ASCII view.
func renderStructure(root *types.TreeNode, formatValue string) (string, error) {
	switch formatValue {
	case types.FormatJSON:
		return build.RenderStructureJSON(root)
	case types.FormatXML:
		return build.RenderStructureXML(root)
	default:
		view := projection.New(root, projection.Options{DefaultExpandDepth: projection.ExpandAllDepth, ShowExcluded: true})
		rendered := view.RenderASCII()
		if len(rendered) > 0 {
			rendered = rendered[:len(rendered)-1]
		}
		return rendered, nil
	}
}

// reportScanOutcome surfaces the walker's structured events through the
// application logger.
func reportScanOutcome(logger *zap.Logger, result *types.ScanResult) {
	for _, event := range result.Events {
		logger.Warn(string(event.Category),
			zap.String("path", utils.RelativePathOrSelf(event.Path, result.Root.Path)),
			zap.String("detail", event.Detail),
		)
	}
	if result.Cancelled {
		logger.Warn(cancelledMessage, zap.String("path", result.Root.Path))
	}
}

// reportTokenCounts estimates token usage for the collected records and logs
// the aggregate.
func reportTokenCounts(logger *zap.Logger, modelName string, records []types.TextFileRecord) error {
	counter, resolvedName, counterError := tokenizer.NewCounter(modelName)
	if counterError != nil {
		return counterError
	}
	counts, countError := tokenizer.CountRecords(counter, records)
	if countError != nil {
		return countError
	}
	logger.Info(tokenSummaryMessage,
		zap.Int("tokens", tokenizer.TotalTokens(counts)),
		zap.String("model", resolvedName),
	)
	return nil
}

// copyIfRequested writes the rendered artifact to the system clipboard.
func copyIfRequested(logger *zap.Logger, copyRequested bool, rendered string) error {
	if !copyRequested {
		return nil
	}
	if copyError := clipboard.NewService().Copy(rendered); copyError != nil {
		return copyError
	}
	logger.Info(copiedMessage)
	return nil
}

// defaultedPaths substitutes the current directory when no paths are given.
func defaultedPaths(arguments []string) []string {
	if len(arguments) == 0 {
		return []string{defaultPath}
	}
	return arguments
}

// resolveAndValidatePaths converts input paths to absolute paths, checks
// existence, requires directories, and removes duplicates.
func resolveAndValidatePaths(inputPaths []string) ([]types.ValidatedPath, error) {
	uniquePaths := make(map[string]struct{})
	var validatedPaths []types.ValidatedPath
	for _, inputPath := range inputPaths {
		absolutePath, absoluteError := filepath.Abs(inputPath)
		if absoluteError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absoluteError)
		}
		cleanPath := filepath.Clean(absolutePath)
		if _, exists := uniquePaths[cleanPath]; exists {
			continue
		}
		fileInformation, statError := os.Stat(cleanPath)
		if statError != nil {
			if os.IsNotExist(statError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, statError)
		}
		if !fileInformation.IsDir() {
			return nil, fmt.Errorf(errorNotDirectoryFormat, inputPath)
		}
		uniquePaths[cleanPath] = struct{}{}
		validatedPaths = append(validatedPaths, types.ValidatedPath{
			AbsolutePath: cleanPath,
			IsDir:        true,
		})
	}
	if len(validatedPaths) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return validatedPaths, nil
}
