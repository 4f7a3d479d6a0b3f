package specfile

// defaultTemplate is the built-in RPM spec template. The staged build root
// already holds the final tree, so %prep, %build and %install stay empty.
const defaultTemplate = `# Generated by pkg2rpm
Name: {{.Name}}
Version: {{.Version}}
Release: {{.Release}}{{.DistTag}}
Summary: {{.Summary}}
License: {{.License}}
Group: {{.Group}}
{{- if .URL}}
URL: {{.URL}}
{{- end}}
Packager: {{.Packager}}
AutoReqProv: no
{{- range .Conflicts}}
Conflicts: {{.}}
{{- end}}
{{- range .Requires}}
Requires: {{.}}
{{- end}}
{{- range .Provides}}
Provides: {{.}}
{{- end}}
{{- range .Obsoletes}}
Obsoletes: {{.}}
{{- end}}

%description
{{.Description}}
{{- if .Pre}}

%pre
{{.Pre}}
{{- end}}
{{- if .Post}}

%post
{{.Post}}
{{- end}}
{{- if .Preun}}

%preun
{{.Preun}}
{{- end}}
{{- if .Postun}}

%postun
{{.Postun}}
{{- end}}

%files
%defattr(-,root,root,-)
{{- range .Files}}
{{.}}
{{- end}}
`
