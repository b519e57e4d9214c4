package overlay

// Shader sources carry no #version line; shader.Compile prepends the
// header matching the Context's GL version hint.

const vertexShaderSource = `
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aTexCoord;
layout (location = 2) in vec4 aColor;

out vec2 TexCoord;
out vec4 Color;

uniform mat4 projection;

void main() {
    gl_Position = projection * vec4(aPos, 0.0, 1.0);
    TexCoord = aTexCoord;
    Color = aColor;
}
`

// The atlas is single channel: R is coverage, vertex color supplies RGB.
const fragmentShaderSource = `
in vec2 TexCoord;
in vec4 Color;

out vec4 FragColor;

uniform sampler2D atlas;
uniform int useTexture;

void main() {
    if (useTexture != 0) {
        FragColor = vec4(Color.rgb, Color.a * texture(atlas, TexCoord).r);
    } else {
        FragColor = Color;
    }
}
`
