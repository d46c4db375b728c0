package render

import "text/template"

const bridgeBody = `interface Boundary {
    {{.Remote}}: (method_name:string, ...args:unknown[])=> Promise<unknown>
}
{{range .Children}}
class {{.Name}} {
    private boundary: Boundary

    constructor(boundary:Boundary) {
        this.boundary = boundary
    }
{{range .Methods}}{{template "method" .}}{{end}}}
{{end}}
class {{.ClassName}} {
    private boundary:Boundary
{{range .Children}}    public {{.Member}}:{{.Name}}
{{end}}
    constructor(boundary:Boundary) {
        this.boundary = boundary
{{range .Children}}        this.{{.Member}} = new {{.Name}}(boundary)
{{end}}    }
{{range .Methods}}{{template "method" .}}{{end}}}

export default {{.ClassName}}
`

// methodBody starts with a newline so consecutive methods are separated by
// one blank line.
const methodBody = `
{{if .HasDoc}}    /*
{{.Doc}}
    */
{{end}}    {{.Name}}({{.Params}}): {{.Promise}} {
        return this.boundary.{{.Remote}}({{.CallArgs}}) as {{.Promise}}
    }
`

const interfaceBody = `{{range .Records}}export interface {{.Name}}{{if .Parent}} extends {{.Parent}}{{end}} {

{{range .Fields}}    {{.Name}}: {{.Type}}
{{end}}}
{{end}}{{range .Aliases}}{{.}}
{{end}}`

var (
	bridgeTemplate    = newBridgeTemplate()
	interfaceTemplate = template.Must(template.New("interfaces").Parse(interfaceBody))
)

func newBridgeTemplate() *template.Template {
	t := template.Must(template.New("bridge").Parse(bridgeBody))
	template.Must(t.New("method").Parse(methodBody))
	return t
}
